package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/minicrm/backend/internal/domain"
)

// InvoiceBuilder renders payment invoices for delivery requests.
type InvoiceBuilder struct{}

// NewInvoiceBuilder creates an InvoiceBuilder.
func NewInvoiceBuilder() *InvoiceBuilder {
	return &InvoiceBuilder{}
}

// BuildRequestInvoice renders an A4 invoice PDF for the request. The
// organization is optional: a client without stored requisites gets dashes.
func (b *InvoiceBuilder) BuildRequestInvoice(details *domain.RequestDetails, org *domain.Organization) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are latin-only; the cp1251 translator maps Cyrillic text
	// onto them.
	tr := doc.UnicodeTranslatorFromDescriptor("cp1251")
	doc.AddPage()

	y := 20.0
	line := func(text string, size float64, gap float64) {
		doc.SetFont("Helvetica", "", size)
		doc.Text(17, y, tr(text))
		y += gap
	}

	now := time.Now()
	line(fmt.Sprintf("Счет на оплату по заявке №%d", details.Number), 16, 9)
	line("Дата формирования: "+now.Format("02.01.2006 15:04"), 11, 6)
	y += 3

	line("Плательщик", 13, 7)
	line("Организация: "+orgField(org, func(o *domain.Organization) string { return o.Name }), 11, 6)
	line(fmt.Sprintf("ИНН: %s   КПП: %s",
		orgPtrField(org, func(o *domain.Organization) *string { return o.INN }),
		orgPtrField(org, func(o *domain.Organization) *string { return o.KPP })), 11, 6)
	line("ОГРН: "+orgPtrField(org, func(o *domain.Organization) *string { return o.OGRN }), 11, 6)
	line("Адрес: "+orgPtrField(org, func(o *domain.Organization) *string { return o.Address }), 11, 6)
	line("Контакт (Telegram): @"+deref(details.ClientUsername), 11, 6)
	y += 3

	line("Реквизиты получателя", 13, 7)
	line("Банк: "+orgPtrField(org, func(o *domain.Organization) *string { return o.Bank }), 11, 6)
	line("Р/счет: "+orgPtrField(org, func(o *domain.Organization) *string { return o.SettlementAccount }), 11, 6)
	line("Корсчет: "+orgPtrField(org, func(o *domain.Organization) *string { return o.CorrespondentAccount }), 11, 6)
	line("БИК: "+orgPtrField(org, func(o *domain.Organization) *string { return o.BIK }), 11, 6)
	y += 3

	line("Основание начисления", 13, 7)
	line("Направление: "+details.DirectionName, 11, 6)
	line("Дата доставки: "+details.DeliveryDate.Format("02.01.2006"), 11, 6)
	line(fmt.Sprintf("Кол-во коробов: %d", details.BoxesCount), 11, 6)
	line(fmt.Sprintf("Вес (кг): %.2f", details.WeightKg), 11, 6)
	line(fmt.Sprintf("Объем (м3): %.2f", details.VolumeM3), 11, 6)
	line("Комментарий: "+deref(details.Comment), 11, 6)
	y += 3

	line("Сумма к оплате: согласно договору и действующему прайсу.", 12, 8)
	line("Договор: "+orgPtrField(org, func(o *domain.Organization) *string { return o.Contract }), 11, 6)
	y += 3
	line("Документ сформирован автоматически в Mini CRM.", 10, 6)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render invoice: %w", err)
	}
	return buf.Bytes(), nil
}

func orgField(org *domain.Organization, get func(*domain.Organization) string) string {
	if org == nil {
		return "-"
	}
	if v := get(org); v != "" {
		return v
	}
	return "-"
}

func orgPtrField(org *domain.Organization, get func(*domain.Organization) *string) string {
	if org == nil {
		return "-"
	}
	if v := get(org); v != nil && *v != "" {
		return *v
	}
	return "-"
}

func deref(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
