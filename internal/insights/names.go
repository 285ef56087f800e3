package insights

// vibeName creates a descriptive name from a cluster centroid.
// Uses a 2x2 mood/extraversion quadrant system with an intuition modifier.
//
// Quadrants:
//   - High Mood + Extravert lean = "Upbeat & Outgoing"
//   - High Mood + Introvert lean = "Bright & Dreamy"
//   - Low Mood  + Extravert lean = "Laid-back & Social"
//   - Low Mood  + Introvert lean = "Quiet & Reflective"
//
// Intuition modifier: if the N share is > 0.7, appends "(Intuitive)".
func vibeName(centroid map[string]float64) string {
	highMood := centroid[featureMood] > 0.5
	extravert := centroid[featureExtravert] > 0.5

	var baseName string
	switch {
	case highMood && extravert:
		baseName = "Upbeat & Outgoing"
	case highMood && !extravert:
		baseName = "Bright & Dreamy"
	case !highMood && extravert:
		baseName = "Laid-back & Social"
	default:
		baseName = "Quiet & Reflective"
	}

	if centroid[featureIntuitive] > 0.7 {
		return baseName + " (Intuitive)"
	}
	return baseName
}

// Description returns a one-line blurb for the vibe's quadrant.
func (v Vibe) Description() string {
	highMood := v.Centroid[featureMood] > 0.5
	extravert := v.Centroid[featureExtravert] > 0.5

	switch {
	case highMood && extravert:
		return "High-energy tracks for social, spontaneous types"
	case highMood && !extravert:
		return "Bright tracks with an inward, imaginative feel"
	case !highMood && extravert:
		return "Easygoing tracks for hanging out"
	default:
		return "Calm, introspective tracks for quiet moments"
	}
}
