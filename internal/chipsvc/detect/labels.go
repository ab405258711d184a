package detect

import "github.com/avvvet/chip-services/internal/chipsvc/models"

// labels maps the detection service's class names to chip colors.
var labels = map[string]models.Color{
	"Red Chip":   models.Red,
	"Green Chip": models.Green,
	"Blue Chip":  models.Blue,
	"White Chip": models.White,
	"Black Chip": models.Black,
}

// TranslateLabels converts a detection result to chip colors. Unknown labels
// are dropped.
func TranslateLabels(counts map[string]int64) map[models.Color]int64 {
	out := make(map[models.Color]int64, len(counts))
	for label, n := range counts {
		c, ok := labels[label]
		if !ok {
			continue
		}
		out[c] = n
	}
	return out
}
