package server

import (
	"time"

	serialpkg "github.com/rberger/dough-man/serial"
)

type HealthResponse struct {
	OK        bool      `json:"ok"`
	Timestamp time.Time `json:"timestamp"`
	Port      string    `json:"port,omitempty"`
	Readings  int       `json:"readings"`
	Clients   int       `json:"clients"`
}

type APIError struct {
	Error string `json:"error"`
}

type ReadingDTO struct {
	Distance float64   `json:"distance"`
	Units    string    `json:"units"`
	Text     string    `json:"text"`
	Time     time.Time `json:"time"`
}

func newReadingDTO(r serialpkg.Reading, at time.Time) ReadingDTO {
	return ReadingDTO{Distance: r.Distance, Units: r.Units, Text: r.String(), Time: at}
}

type ReadingsResponse struct {
	Readings []ReadingDTO `json:"readings"`
}
