package wizard

import "invest-appointment/internal/models"

// View renders wizard state to the operator. The CLI provides the real
// implementation; tests use a discarding one.
type View interface {
	// Message shows an informational line.
	Message(format string, args ...interface{})
	// Reject shows a validation failure. The screen that raised it stays.
	Reject(format string, args ...interface{})
	ShowAppointment(agg *models.Appointment)
	// ShowSells renders one page of the sell list starting at the 1-based index.
	ShowSells(sells []models.SellAllocation, start int)
	// ShowBuys renders one page of the buy list starting at the 1-based index.
	ShowBuys(buys []models.BuyAllocation, start int)
	ShowRemit(remit *models.RemittanceAccount)
}

// NopView discards all rendering.
type NopView struct{}

func (NopView) Message(string, ...interface{})                 {}
func (NopView) Reject(string, ...interface{})                  {}
func (NopView) ShowAppointment(*models.Appointment)            {}
func (NopView) ShowSells([]models.SellAllocation, int)         {}
func (NopView) ShowBuys([]models.BuyAllocation, int)           {}
func (NopView) ShowRemit(*models.RemittanceAccount)            {}
