// Package loan defines the loan application payload sent to the API.
package loan

import "fmt"

// Request is the JSON body of a loan application create or update call.
type Request struct {
	UserID          int     `json:"userId"`
	Amount          float64 `json:"amount"`
	InterestRate    float64 `json:"interestRate"`
	Tenure          int     `json:"tenure"`
	Purpose         string  `json:"purpose"`
	ApplicationDate string  `json:"applicationDate,omitempty"`
}

// NewRequest creates a loan application without an application date.
func NewRequest(userID int, amount, interestRate float64, tenure int, purpose string) Request {
	return Request{
		UserID:       userID,
		Amount:       amount,
		InterestRate: interestRate,
		Tenure:       tenure,
		Purpose:      purpose,
	}
}

func (r Request) String() string {
	return fmt.Sprintf("loan{userId=%d amount=%.2f interestRate=%.2f tenure=%d purpose=%q applicationDate=%q}",
		r.UserID, r.Amount, r.InterestRate, r.Tenure, r.Purpose, r.ApplicationDate)
}
