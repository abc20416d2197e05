package recipe

// Value Objects - Immutable objects that describe aspects of the domain

// RecipeType describes the meal slot a recipe targets.
type RecipeType string

const (
	TypeBreakfast RecipeType = "breakfast"
	TypeLunch     RecipeType = "lunch"
	TypeDinner    RecipeType = "dinner"
	TypeDessert   RecipeType = "dessert"
	TypeSnack     RecipeType = "snack"
)

// IsValid reports whether the recipe type is a member of the enumeration.
func (t RecipeType) IsValid() bool {
	switch t {
	case TypeBreakfast, TypeLunch, TypeDinner, TypeDessert, TypeSnack:
		return true
	}
	return false
}

// CuisineStyle describes the cuisine a generation request is constrained to.
type CuisineStyle string

const (
	CuisineAny           CuisineStyle = "any"
	CuisineMexican       CuisineStyle = "mexican"
	CuisineItalian       CuisineStyle = "italian"
	CuisineIndian        CuisineStyle = "indian"
	CuisineChinese       CuisineStyle = "chinese"
	CuisineJapanese      CuisineStyle = "japanese"
	CuisineFrench        CuisineStyle = "french"
	CuisineAmerican      CuisineStyle = "american"
	CuisineThai          CuisineStyle = "thai"
	CuisineMediterranean CuisineStyle = "mediterranean"
)

// IsValid reports whether the cuisine style is a member of the enumeration.
func (c CuisineStyle) IsValid() bool {
	switch c {
	case CuisineAny, CuisineMexican, CuisineItalian, CuisineIndian, CuisineChinese,
		CuisineJapanese, CuisineFrench, CuisineAmerican, CuisineThai, CuisineMediterranean:
		return true
	}
	return false
}

// GenerationParameters carries the user's generation preferences into the
// generation policy and on to the AI provider.
type GenerationParameters struct {
	RecipeType            RecipeType
	CuisineStyle          CuisineStyle
	AllowExtraIngredients bool
}

// DefaultGenerationParameters returns the parameter defaults: dinner, any
// cuisine, no extra ingredients.
func DefaultGenerationParameters() GenerationParameters {
	return GenerationParameters{
		RecipeType:            TypeDinner,
		CuisineStyle:          CuisineAny,
		AllowExtraIngredients: false,
	}
}

// Validate validates the generation parameters.
func (p GenerationParameters) Validate() error {
	if !p.RecipeType.IsValid() {
		return ErrInvalidRecipeType
	}
	if !p.CuisineStyle.IsValid() {
		return ErrInvalidCuisineStyle
	}
	return nil
}

// Ingredient represents one ingredient line of a generated recipe.
// IsAvailable is true when the ingredient was among the user's selected
// candidate names, false when it must be acquired; the AI provider is the
// source of truth for this flag given the mode instruction it was given.
type Ingredient struct {
	Name        string `json:"name"`
	Amount      string `json:"amount"`
	Unit        string `json:"unit"`
	IsAvailable bool   `json:"isAvailable"`
}

// Validate validates the ingredient
func (i Ingredient) Validate() error {
	if i.Name == "" {
		return ErrIngredientNameRequired
	}
	return nil
}
