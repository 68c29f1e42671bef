package dto

// ─── Blog / Page ─────────────────────────────────────────────────────────────

type BlogRequest struct {
	Title     string  `json:"title"     validate:"required,min=2,max=200"`
	Content   string  `json:"content"   validate:"required"`
	Image     *string `json:"image"     validate:"omitempty,max=500"`
	Published *bool   `json:"published"`
}

type BlogResponse struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Slug      string  `json:"slug"`
	Content   string  `json:"content"`
	Image     *string `json:"image"`
	Published bool    `json:"published"`
	CreatedAt string  `json:"createdAt"`
}

type PageRequest struct {
	Title   string `json:"title"   validate:"required,min=2,max=200"`
	Content string `json:"content" validate:"required"`
}

type StaticPageResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Content   string `json:"content"`
	UpdatedAt string `json:"updatedAt"`
}

// ─── Messages ────────────────────────────────────────────────────────────────

type MessageRequest struct {
	Name    string  `json:"name"    validate:"required,min=2,max=100"`
	Email   string  `json:"email"   validate:"required,email"`
	Phone   *string `json:"phone"   validate:"omitempty,max=20"`
	Subject string  `json:"subject" validate:"required,max=200"`
	Content string  `json:"content" validate:"required,max=5000"`
}

type MessageResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
	Subject   string  `json:"subject"`
	Content   string  `json:"content"`
	Read      bool    `json:"read"`
	CreatedAt string  `json:"createdAt"`
}

type SendSMSRequest struct {
	Phone string `json:"phone" validate:"required,min=6,max=20"`
	Text  string `json:"text"  validate:"required,max=480"`
}
