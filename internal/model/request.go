package model

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateRecipeRequest struct {
	Name        string `json:"name"`
	Ingredients string `json:"ingredients"`
	Steps       string `json:"steps"`
}

// UpdateRecipeRequest carries a sparse patch: only non-nil fields are
// applied, everything else keeps its stored value.
type UpdateRecipeRequest struct {
	Name        *string `json:"name,omitempty"`
	Ingredients *string `json:"ingredients,omitempty"`
	Steps       *string `json:"steps,omitempty"`
	IsDraft     *bool   `json:"is_draft,omitempty"`
}
