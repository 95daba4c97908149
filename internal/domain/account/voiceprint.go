package account

import "math"

// Similarity сравнивает два аудиофрагмента по распределению байтов (косинусная мера).
// Одинаковые записи дают 1.
func Similarity(a, b []byte) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	var ha, hb [256]float64
	for _, c := range a {
		ha[c]++
	}
	for _, c := range b {
		hb[c]++
	}

	var dot, na, nb float64
	for i := range ha {
		dot += ha[i] * hb[i]
		na += ha[i] * ha[i]
		nb += hb[i] * hb[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
