package pipeline

import "strings"

// buildMenuPrompt constructs the extraction instructions for the vision
// model. The style vocabulary is inlined so the model stays inside the
// canonical list, and the anti-fabrication rules are spelled out because the
// hallucination filter can only catch what the prompt failed to prevent.
func buildMenuPrompt(styles []string, singleBrewery bool) string {
	var b strings.Builder

	b.WriteString("You are a beer menu reader. The attached photo shows a bar's tap or bottle menu.\n\n")
	b.WriteString("Task:\n")
	b.WriteString("- Extract ONLY the beers that are actually visible in the photo.\n")
	b.WriteString("- Do NOT invent, guess, or fill in any value you cannot read.\n")
	b.WriteString("- Output STRICT JSON only: a JSON array of objects, no comments, no extra text.\n\n")
	b.WriteString("Each object must have these fields:\n")
	b.WriteString("- \"name\": string, the beer's name as printed\n")
	b.WriteString("- \"brewery\": string or null (null if the menu does not name one - never write \"Unknown\")\n")
	b.WriteString("- \"abv\": number or null, alcohol percentage only if printed\n")
	b.WriteString("- \"price\": number or null, in the menu's currency\n")
	b.WriteString("- \"size\": number or null, serving size in ounces only if printed\n")
	b.WriteString("- \"type\": string or null, the beer style\n")
	b.WriteString("- \"confidence\": \"high\", \"medium\" or \"low\" - how clearly you could read this entry\n\n")

	if len(styles) > 0 {
		b.WriteString("For \"type\", use one of the following styles when it fits:\n")
		for _, s := range styles {
			b.WriteString("  - " + s + "\n")
		}
		b.WriteString("\n")
	}

	if singleBrewery {
		b.WriteString("All beers on this menu come from a single brewery. If the brewery name is visible anywhere on the menu, use it for every beer; otherwise leave brewery null.\n\n")
	}

	b.WriteString("Rules:\n")
	b.WriteString("- Skip food items, cocktails, wine and non-beer entries entirely.\n")
	b.WriteString("- If a value is unreadable or absent, use null - never a placeholder string.\n")
	b.WriteString("- Return ONLY valid raw JSON.\n")
	b.WriteString("- Do NOT wrap the response in code fences.\n")
	b.WriteString("- Output must begin with \"[\" and end with \"]\".\n")

	return b.String()
}
