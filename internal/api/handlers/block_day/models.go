package block_day

// BlockDayRequest HTTP request model
type BlockDayRequest struct {
	Date   string  `json:"date" validate:"required,datetime=2006-01-02"` // "2026-12-31"
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=255"`
}
