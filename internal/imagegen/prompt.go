package imagegen

import "fmt"

// Fixed stylistic fragments describing the studio setup. The recipe only
// contributes its name and ingredients; everything else is constant so the
// generated set stays visually consistent.
const (
	promptAesthetic   = "High-resolution editorial food photograph, rustic artisanal style, warm and textural."
	promptVessel      = "served on an artisanal ceramic plate"
	promptVisualDesc  = "richly colored, textured food, elegantly plated"
	promptGarnishes   = "fresh herbs, scattered spices"
	promptSurface     = "a textured dark stone surface"
	promptScene       = "folds of steam, a few scattered ingredients"
	promptLighting    = "Illuminated with a soft side-light setup to create depth and emphasize the dish's warm hues and subtle sheen, no harsh shadows."
	promptComposition = "Captured at a shallow 35-45 degree angle to highlight the presentation. Razor-sharp focus on the center of the dish, with a gentle falloff around the edges. 3:2 aspect ratio."
)

// BuildPrompt assembles the creative brief sent to the image provider.
func BuildPrompt(name string, ingredients string) string {
	scene := promptScene
	if ingredients != "" {
		scene = fmt.Sprintf("%s: %s", promptScene, ingredients)
	}

	return fmt.Sprintf(
		"%s %s, featuring %s, is %s, placed on %s. Garnished with %s. The scene includes %s. %s %s",
		promptAesthetic, name, promptVisualDesc, promptVessel, promptSurface,
		promptGarnishes, scene, promptLighting, promptComposition,
	)
}
