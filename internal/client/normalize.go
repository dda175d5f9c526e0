package client

import "encoding/json"

// Los endpoints de listado responden {"results": [...]}, pero versiones
// viejas del backend usaban {"posts": [...]} o un array pelado. Se acepta
// cualquiera de las tres formas y el resto del SDK ve siempre un slice.
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var envelope struct {
		Results json.RawMessage `json:"results"`
		Posts   json.RawMessage `json:"posts"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if len(envelope.Results) > 0 {
			raw = envelope.Results
		} else if len(envelope.Posts) > 0 {
			raw = envelope.Posts
		}
	}

	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
