package notifier

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"lotwatch/torgiwatch/internal/model"
)

const (
	headerNewLot       = "🎯 <b>Новый лот</b>"
	headerStatusChange = "🔄 <b>Изменение статуса</b>"
	unknownStatus      = "Неизвестно"
	noPrice            = "—"
)

// FormatNewLot renders the message announcing a lot seen for the first time
func FormatNewLot(lot model.Lot) string {
	return headerNewLot + "\n\n" + body(lot)
}

// FormatStatusChange renders the message announcing a status transition
func FormatStatusChange(lot model.Lot, oldStatus string) string {
	if oldStatus == "" {
		oldStatus = unknownStatus
	}
	return headerStatusChange + "\n\n" +
		"Старый статус: " + html.EscapeString(oldStatus) + "\n\n" +
		body(lot)
}

func body(lot model.Lot) string {
	var b strings.Builder

	line := func(label, value string) {
		fmt.Fprintf(&b, "<b>%s:</b> %s\n", label, value)
	}

	line("Название", or(lot.Title, "Без названия"))
	line("Номер", or(lot.LotNumber, "Не указан"))
	line("Вид торгов", or(lot.LotType, "Не указана"))
	line("Регион", or(lot.Region, "Не указан"))
	line("Адрес", or(lot.Address, "Не указан"))
	line("Начальная цена", FormatPrice(lot.InitialPrice, lot.Currency))
	line("Текущая цена", FormatPrice(lot.CurrentPrice, lot.Currency))
	line("Подача заявок до", or(lot.ApplicationDeadline, "Не указана"))
	line("Статус", or(lot.Status, "Не указан"))
	line("Организатор", or(lot.Organizer, "Не указан"))

	if lot.LotURL != "" {
		fmt.Fprintf(&b, "\n<a href='%s'>Ссылка на лот</a>", html.EscapeString(lot.LotURL))
	}

	return strings.TrimRight(b.String(), "\n")
}

// or escapes value, or returns fallback when value is empty
func or(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return html.EscapeString(value)
}

// FormatPrice renders a rounded amount with comma thousands separators, e.g. 1,234,568 ₽
func FormatPrice(price *float64, currency string) string {
	if price == nil {
		return noPrice
	}
	if currency == "" {
		currency = model.DefaultCurrency
	}

	digits := strconv.FormatInt(int64(math.Round(math.Abs(*price))), 10)
	var grouped strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(d)
	}

	sign := ""
	if *price < 0 {
		sign = "-"
	}
	return sign + grouped.String() + " " + html.EscapeString(currency)
}
