package domain

import "time"

// Estimate es la estimación de probabilidad de un modelo para un mercado.
// Varios modelos (sources) pueden estimar el mismo mercado.
type Estimate struct {
	Ticker      string
	Source      string
	Probability float64 // en [0,1]
	Confidence  float64 // en [0,1]
	CreatedAt   time.Time
}

type sourceKey struct {
	ticker, source string
}

// LatestPerSource reduce una lista de estimaciones a la más reciente por
// (ticker, source). Empates en timestamp se resuelven por orden de inserción:
// la última escritura gana. El orden de salida es el de primera aparición
// de cada par, para que los ciclos sean deterministas.
func LatestPerSource(estimates []Estimate) []Estimate {
	index := make(map[sourceKey]int, len(estimates))
	var out []Estimate

	for _, e := range estimates {
		key := sourceKey{e.Ticker, e.Source}
		if i, ok := index[key]; ok {
			if !e.CreatedAt.Before(out[i].CreatedAt) {
				out[i] = e
			}
			continue
		}
		index[key] = len(out)
		out = append(out, e)
	}
	return out
}
