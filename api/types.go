package api

import "time"

type Seat struct {
	Id          int  `json:"id"`
	CinemaId    int  `json:"cinemaId"`
	IsPurchased bool `json:"isPurchased"`
}

type Cinema struct {
	Id    int    `json:"id"`
	Seats []Seat `json:"seats"`
}

type CreateCinemaRequest struct {
	NumSeats int `json:"numSeats" validate:"required,gt=0,lte=100000"`
}

type CreateCinemaResponse struct {
	CinemaId int `json:"cinemaId"`
}

type CinemaResponse struct {
	Cinema Cinema `json:"cinema"`
}

type PurchaseSeatResponse struct {
	Seat Seat `json:"seat"`
}

type PurchaseConsecutiveSeatsResponse struct {
	Seats []Seat `json:"seats"`
}

type ErrorResponse struct {
	Error     string    `json:"error"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Error            string            `json:"error"`
	RequestId        string            `json:"requestId"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}
