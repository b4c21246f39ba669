package entity

type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
	Symbol string `json:"symbol"`
}
