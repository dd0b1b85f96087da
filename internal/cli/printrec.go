package cli

import (
	"context"
	"fmt"
	"strings"

	"invest-appointment/internal/models"
	"invest-appointment/internal/store"
)

// Print-line item codes, as the letter template expects them.
const (
	printItemHeader  = "10"
	printItemProcess = "42"
	printItemBody    = "U8"
	printItemFooter1 = "Z1"
	printItemFooter2 = "Z2"
)

// buildPrintLines assembles the letter body queued on approve and cancel.
// The layout mirrors the confirmation letters the print subsystem renders:
// header line, process date, a description of what was appointed, the sell
// and buy details, and the fixed footer.
func buildPrintLines(ctx context.Context, st store.InvestmentDirectory, agg *models.Appointment, receiveNo string, cancelled bool) []models.PrintLine {
	h := &agg.Header
	lines := []models.PrintLine{
		{Item: printItemHeader, Comment: fmt.Sprintf("Policy %s Receive %s Date %s", h.PolicyNo, receiveNo, h.ProcDate)},
		{Item: printItemProcess, Comment: fmt.Sprintf("Process Date %s", h.ProcDate)},
		{Item: printItemBody, Comment: describeAppointment(h, cancelled)},
		{Item: printItemBody, Comment: "Appointed Sell Investments"},
	}

	for _, s := range agg.Sells {
		detail := s.InvestCode + investTitle(ctx, st, s.InvestCode) + "  "
		if s.Mode == models.SellByAmount {
			detail += "Sell Amount " + s.Amount.StringFixed(2)
		} else {
			detail += "Sell All"
		}
		lines = append(lines, models.PrintLine{Item: printItemBody, Comment: detail})
	}

	if h.Direction == models.DirectionConversion {
		lines = append(lines, models.PrintLine{Item: printItemBody, Comment: "Appointed Buy Investments"})
		for _, b := range agg.Buys {
			detail := fmt.Sprintf("%s%s  Buy Percentage %d%%", b.InvestCode, investTitle(ctx, st, b.InvestCode), b.Percent)
			lines = append(lines, models.PrintLine{Item: printItemBody, Comment: detail})
		}
	}

	lines = append(lines,
		models.PrintLine{Item: printItemFooter1, Comment: "Thank you for your business"},
		models.PrintLine{Item: printItemFooter2, Comment: "Please contact customer service for any questions"},
	)
	return lines
}

func describeAppointment(h *models.AppointmentHeader, cancelled bool) string {
	var b strings.Builder
	if cancelled {
		b.WriteString("Cancel Investment")
	} else {
		b.WriteString("Appoint Investment")
	}
	if h.Direction == models.DirectionConversion {
		b.WriteString(" Conversion")
	} else {
		b.WriteString(" Withdrawal")
	}

	yyy, mmm, ddd := splitDate(h.BeginDate)
	if h.Frequency == models.FreqOnce {
		fmt.Fprintf(&b, ": %s year %s month %s day", yyy, mmm, ddd)
	} else {
		fmt.Fprintf(&b, ": %s year %s month %s day_Every ", yyy, mmm, ddd)
		switch h.Frequency {
		case models.FreqMonthly:
			b.WriteString("Month")
		case models.FreqQuarterly:
			b.WriteString("Quarter")
		case models.FreqSemiAnnual:
			b.WriteString("Half-year")
		case models.FreqAnnual:
			b.WriteString("Year")
		}
		fmt.Fprintf(&b, " %s day", ddd)
	}

	if cancelled {
		fmt.Fprintf(&b, "(Original Receive No:%s)", h.ReceiveNo)
	}
	return b.String()
}

func splitDate(canonical string) (yyy, mmm, ddd string) {
	parts := strings.SplitN(canonical, "/", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	return parts[0], parts[1], parts[2]
}

func investTitle(ctx context.Context, st store.InvestmentDirectory, code string) string {
	title, err := st.InvestmentTitle(ctx, code)
	if err != nil {
		return ""
	}
	return title
}
