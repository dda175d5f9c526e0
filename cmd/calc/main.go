// calc es el CLI de la calculadora de alimentación: corre contra un
// server de la plataforma, guía mascota → alimento → resultado y guarda
// el cálculo en el historial local.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"pet-care-platform/internal/adapters/ocr/visionsvc"
	"pet-care-platform/internal/calcflow"
	"pet-care-platform/internal/client"
	"pet-care-platform/internal/history"
	"pet-care-platform/internal/platform/logger"
	"pet-care-platform/internal/social"
)

func main() {
	var (
		baseURL     = flag.String("base", envOr("API_BASE_URL", "http://localhost:8080"), "base URL del API")
		token       = flag.String("token", os.Getenv("API_TOKEN"), "bearer token")
		debugUser   = flag.String("user", os.Getenv("DEBUG_USER_ID"), "user id para modo dev (X-Debug-User-ID)")
		historyPath = flag.String("history", defaultHistoryPath(), "archivo del historial local")
		showHistory = flag.Bool("show-history", false, "mostrar historial y salir")
	)
	flag.Parse()

	log := logger.NewFromEnv()
	store := history.NewStore(*historyPath)

	if *showHistory {
		printHistory(store)
		return
	}

	api, err := client.New(*baseURL, *token)
	if err != nil {
		fail("invalid base URL: %v", err)
	}
	if *debugUser != "" {
		api = api.WithDebugUser(*debugUser)
	}

	ctx := context.Background()
	in := bufio.NewScanner(os.Stdin)

	pet, temp := choosePet(ctx, api, in)

	feed := chooseFeed(ctx, api, in, log)

	gate := calcflow.NewReviewGate(api, &stdinPrompter{in: in}, api.UserID())
	wiz := calcflow.NewWizard(api, gate)

	if pet != nil {
		weight := promptFloat(in, fmt.Sprintf("peso kg [%s]", trimFloat(pet.Weight)), pet.Weight)
		height := promptFloat(in, fmt.Sprintf("altura cm [%s]", trimFloat(pet.Height)), pet.Height)
		if err := wiz.SelectPersistedPet(*pet, weight, height); err != nil {
			fail("pet: %v", err)
		}
	} else {
		if err := wiz.SelectTemporaryPet(*temp); err != nil {
			fail("pet: %v", err)
		}
	}
	if err := wiz.Next(ctx); err != nil {
		fail("pet step: %v", err)
	}

	conditions := promptList(in, "condiciones de salud (coma-separadas, vacío = ninguna)")
	if err := wiz.SelectFeed(feed, conditions); err != nil {
		fail("feed: %v", err)
	}

	if err := wiz.Next(ctx); err != nil {
		if err == calcflow.ErrReviewDeclined {
			fmt.Println("Alimento no revisado; cálculo cancelado.")
			return
		}
		fail("%s", client.UserMessage(err))
	}

	for wiz.Phase() == calcflow.PhaseError {
		fmt.Printf("Falló el cálculo: %s\n", client.UserMessage(wiz.Err()))
		if !promptYes(in, "reintentar?") {
			return
		}
		if err := wiz.Retry(ctx); err != nil {
			fail("retry: %v", err)
		}
	}

	res := wiz.Result()
	printResult(*res)

	if promptYes(in, "marcar este alimento como favorito?") {
		if err := gate.GuardedMark(ctx, api, wiz.Feed()); err != nil {
			fmt.Println(client.UserMessage(err))
		}
	}

	entry := history.Entry{
		FeedID:    wiz.Feed().ID,
		FeedName:  wiz.Feed().Name,
		FeedBrand: wiz.Feed().Brand,
		Result:    *res,
	}
	if pet != nil {
		entry.PetID = pet.ID
		entry.PetName = pet.Name
	}
	if _, err := store.Append(entry); err != nil {
		log.Warn("history save failed", map[string]any{"err": err.Error()})
	}
}

// stdinPrompter implementa calcflow.Prompter sobre la terminal.
type stdinPrompter struct {
	in *bufio.Scanner
}

func (p *stdinPrompter) PromptReview(_ context.Context, f client.Feed) (calcflow.Decision, error) {
	fmt.Printf("\n%q (%s) aún no está verificado (%d revisiones).\n", f.Name, f.Brand, f.ReviewCount)
	fmt.Printf("  proteína %.1f%%  grasa %.1f%%  carb %.1f%%  Ca %.2f%%  P %.2f%%  Mg %.0fmg  Na %.0fmg\n",
		f.Nutrients.Protein, f.Nutrients.Fat, f.Nutrients.Carbohydrate,
		f.Nutrients.Calcium, f.Nutrients.Phosphorus,
		f.Nutrients.MagnesiumMg, f.Nutrients.SodiumMg)

	switch promptLine(p.in, "[c]onfirmar datos / [r]eportar error / [s]altar") {
	case "c":
		return calcflow.Decision{Do: calcflow.ActionConfirm}, nil
	case "r":
		cats := promptList(p.in, "categorías (name,brand,price,nutrition,image,other)")
		desc := promptLine(p.in, "descripción")
		return calcflow.Decision{
			Do: calcflow.ActionReport,
			Report: &client.ErrorReportInput{
				Categories:  cats,
				Description: desc,
			},
		}, nil
	default:
		return calcflow.Decision{Do: calcflow.ActionSkip}, nil
	}
}

func choosePet(ctx context.Context, api *client.Client, in *bufio.Scanner) (*client.Pet, *calcflow.TempPet) {
	pets, err := api.ListPets(ctx)
	if err != nil {
		fail("%s", client.UserMessage(err))
	}

	if len(pets) > 0 {
		fmt.Println("Mascotas:")
		for i, p := range pets {
			fmt.Printf("  %d) %s (%s, %s, %skg)\n", i+1, p.Name, p.Species, p.LifeStage, trimFloat(p.Weight))
		}
		sel := promptLine(in, "número de mascota, o vacío para una temporal")
		if sel != "" {
			i, err := strconv.Atoi(sel)
			if err != nil || i < 1 || i > len(pets) {
				fail("selección inválida")
			}
			return &pets[i-1], nil
		}
	}

	t := calcflow.TempPet{
		Species:   promptLine(in, "especie (cat/dog)"),
		LifeStage: promptLine(in, "etapa (baby/adult/senior/pregnant/lactating)"),
		Weight:    promptFloat(in, "peso kg", 0),
		Height:    promptFloat(in, "altura cm", 0),
	}
	return nil, &t
}

func chooseFeed(ctx context.Context, api *client.Client, in *bufio.Scanner, log logger.Logger) client.Feed {
	// Favoritos, recientes y catálogo se traen en paralelo; si algo
	// falla se sigue sin previews y se registra el alimento a mano.
	sections := social.NewFeedSections(api)
	if err := sections.Refresh(ctx); err != nil {
		log.Warn("feed previews", map[string]any{"err": err.Error()})
	}

	feeds := sections.Marked()
	offset := len(feeds)
	feeds = append(feeds, sections.Recent()...)

	if len(feeds) > 0 {
		if offset > 0 {
			fmt.Println("Favoritos:")
			printFeedLines(feeds[:offset], 0)
		}
		if offset < len(feeds) {
			fmt.Println("Alimentos recientes:")
			printFeedLines(feeds[offset:], offset)
		}
		sel := promptLine(in, "número de alimento, o vacío para registrar uno nuevo")
		if sel != "" {
			i, err := strconv.Atoi(sel)
			if err != nil || i < 1 || i > len(feeds) {
				fail("selección inválida")
			}
			return feeds[i-1]
		}
	}

	return registerFeed(ctx, api, in, log)
}

func printFeedLines(feeds []client.Feed, base int) {
	for i, f := range feeds {
		mark := " "
		if f.IsVerified {
			mark = "*"
		}
		fmt.Printf("  %d)%s %s — %s\n", base+i+1, mark, f.Name, f.Brand)
	}
}

func registerFeed(ctx context.Context, api *client.Client, in *bufio.Scanner, log logger.Logger) client.Feed {
	reg := client.CreateFeedInput{
		Name:  promptLine(in, "nombre"),
		Brand: promptLine(in, "marca"),
		Price: promptFloat(in, "precio", 0),
	}

	// Con una foto de la etiqueta y el servicio de visión configurado,
	// los nutrientes se pre-llenan por OCR y el usuario solo corrige.
	var prefill *client.Nutrients
	if imgPath := promptLine(in, "foto de la etiqueta (path, vacío = ninguna)"); imgPath != "" {
		data, err := os.ReadFile(imgPath)
		if err != nil {
			fail("leer imagen: %v", err)
		}
		reg.NutritionImage = data
		prefill = extractNutrients(ctx, data, log)
	}

	n := client.Nutrients{}
	if prefill != nil {
		n = *prefill
		fmt.Println("Nutrientes leídos de la etiqueta; enter para aceptar cada valor.")
	}
	n.Protein = promptFloat(in, "proteína %", n.Protein)
	n.Fat = promptFloat(in, "grasa %", n.Fat)
	n.Carbohydrate = promptFloat(in, "carbohidrato %", n.Carbohydrate)
	n.Calcium = promptFloat(in, "calcio %", n.Calcium)
	n.Phosphorus = promptFloat(in, "fósforo %", n.Phosphorus)
	n.MagnesiumMg = promptFloat(in, "magnesio mg", n.MagnesiumMg)
	n.SodiumMg = promptFloat(in, "sodio mg", n.SodiumMg)
	reg.Nutrients = n

	resolver := calcflow.NewFeedResolver(api)
	feed, existed, err := resolver.Resolve(ctx, reg)
	if err != nil {
		fail("%s", client.UserMessage(err))
	}
	if existed {
		fmt.Printf("Ya estaba registrado: %s — %s (se usan los datos existentes)\n", feed.Name, feed.Brand)
	}
	return feed
}

func extractNutrients(ctx context.Context, image []byte, log logger.Logger) *client.Nutrients {
	base := os.Getenv("VISION_BASE_URL")
	if base == "" {
		return nil
	}
	vc, err := visionsvc.NewClient(visionsvc.Config{
		BaseURL: base,
		APIKey:  os.Getenv("VISION_API_KEY"),
	})
	if err != nil {
		log.Warn("vision config", map[string]any{"err": err.Error()})
		return nil
	}
	ex, err := vc.ExtractNutrients(ctx, image, "image/jpeg")
	if err != nil || ex.Confidence < 0.5 {
		return nil
	}
	return &client.Nutrients{
		Protein:      ex.Nutrients.ProteinPct,
		Fat:          ex.Nutrients.FatPct,
		Carbohydrate: ex.Nutrients.CarbPct,
		Calcium:      ex.Nutrients.CalciumPct,
		Phosphorus:   ex.Nutrients.PhosphorusPct,
		MagnesiumMg:  ex.Nutrients.MagnesiumG * 1000,
		SodiumMg:     ex.Nutrients.SodiumG * 1000,
	}
}

func printResult(res client.CalculationResult) {
	fmt.Println()
	fmt.Println(res.Description)
	fmt.Printf("Energía diaria: %.0f kcal ME\n", res.DailyMEKcal)
	fmt.Printf("Ración diaria:  %.0f g\n", res.DailyFeedAmountG)
	if len(res.RecommendedNutrients) > 0 {
		fmt.Println("Recomendado vs ingesta (por día):")
		for k, v := range res.RecommendedNutrients {
			fmt.Printf("  %-14s %8.2f  /  %.2f\n", k, v, res.ActualIntake[k])
		}
	}
	if res.Feed != nil {
		fmt.Printf("Nota: los datos del alimento fueron corregidos por su creador (rev. %d)\n", res.Feed.ReviewCount)
	}
}

func printHistory(store *history.Store) {
	entries := store.List()
	if len(entries) == 0 {
		fmt.Println("Historial vacío.")
		return
	}
	for _, e := range entries {
		name := e.PetName
		if name == "" {
			name = "(temporal)"
		}
		fmt.Printf("%s  %s  %s — %s  %.0f kcal  %.0f g\n",
			e.SavedAt.Local().Format("2006-01-02 15:04"),
			name, e.FeedName, e.FeedBrand,
			e.Result.DailyMEKcal, e.Result.DailyFeedAmountG)
	}
}

func promptLine(in *bufio.Scanner, label string) string {
	fmt.Printf("%s: ", label)
	if !in.Scan() {
		return ""
	}
	return strings.TrimSpace(in.Text())
}

func promptFloat(in *bufio.Scanner, label string, def float64) float64 {
	s := promptLine(in, label)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		fail("valor numérico inválido: %q", s)
	}
	return v
}

func promptList(in *bufio.Scanner, label string) []string {
	s := promptLine(in, label)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func promptYes(in *bufio.Scanner, label string) bool {
	s := strings.ToLower(promptLine(in, label+" [y/n]"))
	return s == "y" || s == "yes" || s == "s" || s == "si"
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "calc-history.json"
	}
	return filepath.Join(home, ".pet-care", "calc-history.json")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
