package models

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type ProductPage struct {
	Items      []Product  `json:"items"`
	Pagination Pagination `json:"pagination"`
}

type OrderPage struct {
	Items      []Order    `json:"items"`
	Pagination Pagination `json:"pagination"`
}

type ActionLogPage struct {
	Items      []ActionLog `json:"items"`
	Pagination Pagination  `json:"pagination"`
}
