package response

type AmountDueResponse struct {
	AmountDueCents int64 `json:"amount_due_cents"`
}

type DraftResponse struct {
	Selection map[string][]string `json:"selection"`
}
