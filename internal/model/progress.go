package model

type Progress struct {
	Completed int
	Total     int
	Fraction  float64
}

func ComputeProgress(items []Activity) Progress {
	p := Progress{Total: len(items)}
	for _, a := range items {
		if a.Completed {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.Fraction = float64(p.Completed) / float64(p.Total)
	}
	return p
}
