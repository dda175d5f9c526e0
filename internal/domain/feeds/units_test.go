package feeds

import "testing"

func TestUnits_MilligramsGramsRoundTrip(t *testing.T) {
	// Valores típicos de etiquetas: el round-trip debe ser exacto.
	cases := []float64{0, 8, 80, 82.5, 350, 1200, 0.001}

	for _, mg := range cases {
		g := MilligramsToGrams(mg)
		back := GramsToMilligrams(g)
		if back != mg {
			t.Errorf("round trip %v mg -> %v g -> %v mg", mg, g, back)
		}
	}
}

func TestUnits_Conversion(t *testing.T) {
	if g := MilligramsToGrams(80); g != 0.08 {
		t.Errorf("80mg = %vg, want 0.08", g)
	}
	if mg := GramsToMilligrams(0.35); mg != 350 {
		t.Errorf("0.35g = %vmg, want 350", mg)
	}
}

func TestNormalizeKey(t *testing.T) {
	a := NormalizeKey("  NutriCat Adult ", "NutriCo")
	b := NormalizeKey("nutricat adult", "NUTRICO")
	if a != b {
		t.Errorf("keys differ: %q vs %q", a, b)
	}

	c := NormalizeKey("NutriCat Adult", "OtherBrand")
	if a == c {
		t.Errorf("different brand must give different key")
	}
}
