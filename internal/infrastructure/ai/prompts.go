package ai

import (
	"fmt"
	"strings"

	"github.com/fridgechef/api/internal/domain/recipe"
)

// DetectionSystemPrompt instructs the model to return the canonical
// detection schema and nothing else.
const DetectionSystemPrompt = `You are a food recognition assistant. Identify every distinct food ingredient visible in the photo.

CRITICAL: Respond with ONLY a valid JSON object in the exact format below. No explanatory text, no markdown formatting.

{
  "ingredients": [
    {
      "name": "tomato",
      "confidence": 0.95,
      "category": "produce"
    }
  ]
}

Rules:
- name is a lowercase singular ingredient name
- confidence is your certainty between 0.0 and 1.0
- category is one of: produce, protein, dairy, grain, condiment, spice, other
- list each distinct ingredient once
- an empty photo yields an empty ingredients array`

// GenerationSystemPrompt instructs the model to return the canonical recipe
// schema and nothing else.
const GenerationSystemPrompt = `You are an expert chef. Create recipes from the ingredient list you are given.

CRITICAL: Respond with ONLY a valid JSON array in the exact format below. No explanatory text, no markdown formatting.

[
  {
    "title": "Recipe Name",
    "description": "Brief description of the dish",
    "prepTime": 15,
    "cookTime": 25,
    "servings": 4,
    "ingredients": [
      {
        "name": "tomato",
        "amount": "2",
        "unit": "pcs",
        "isAvailable": true
      }
    ],
    "instructions": [
      "Step 1: Detailed instruction",
      "Step 2: Next step"
    ],
    "tips": ["optional serving tip"]
  }
]

Rules:
- prepTime and cookTime are minutes
- isAvailable is true only for ingredients taken from the provided list
- every recipe needs at least one ingredient and one instruction step`

// BuildGenerationPrompt renders the user prompt for recipe generation. The
// mode instruction derived from AllowExtraIngredients governs how the model
// sets each ingredient's isAvailable flag: in strict mode every ingredient
// comes from the list and is available; otherwise extras are allowed and
// must be flagged unavailable.
func BuildGenerationPrompt(names []string, params recipe.GenerationParameters) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create 3 %s recipes using these ingredients: %s.\n", params.RecipeType, strings.Join(names, ", "))

	if params.CuisineStyle != recipe.CuisineAny {
		fmt.Fprintf(&b, "Cuisine: %s.\n", params.CuisineStyle)
	}

	if params.AllowExtraIngredients {
		b.WriteString("You may include ingredients that are not on the list; mark those with \"isAvailable\": false and every listed ingredient with \"isAvailable\": true.\n")
	} else {
		b.WriteString("Use ONLY ingredients from the list (plus salt, pepper, oil and water); mark every ingredient with \"isAvailable\": true.\n")
	}

	return b.String()
}

// BuildDetectionPrompt renders the user prompt accompanying the photo.
func BuildDetectionPrompt() string {
	return "Identify all food ingredients visible in this photo."
}
