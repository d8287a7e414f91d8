package rest

import (
	"time"

	"github.com/minicrm/backend/internal/domain"
)

type requestResponse struct {
	ID             string    `json:"id"`
	Number         int64     `json:"number"`
	Status         string    `json:"status"`
	DirectionID    string    `json:"directionId"`
	DirectionName  string    `json:"directionName"`
	DeliverySlotID string    `json:"deliverySlotId"`
	DeliveryDate   string    `json:"deliveryDate"`
	BoxesCount     int       `json:"boxesCount"`
	WeightKg       float64   `json:"weightKg"`
	VolumeM3       float64   `json:"volumeM3"`
	Comment        *string   `json:"comment,omitempty"`
	ClientID       string    `json:"clientId"`
	TelegramID     int64     `json:"telegramId"`
	ClientUsername *string   `json:"clientUsername,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type historyEntryResponse struct {
	ID         string    `json:"id"`
	EventType  string    `json:"eventType"`
	FromStatus *string   `json:"fromStatus,omitempty"`
	ToStatus   *string   `json:"toStatus,omitempty"`
	ActorType  string    `json:"actorType"`
	ActorID    *string   `json:"actorId,omitempty"`
	Comment    *string   `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type requestDetailsResponse struct {
	requestResponse
	History []historyEntryResponse `json:"history"`
}

func toRequestResponse(s *domain.RequestSummary) requestResponse {
	return requestResponse{
		ID:             s.ID.String(),
		Number:         s.Number,
		Status:         string(s.Status),
		DirectionID:    s.DirectionID.String(),
		DirectionName:  s.DirectionName,
		DeliverySlotID: s.DeliverySlotID.String(),
		DeliveryDate:   s.DeliveryDate.Format("2006-01-02"),
		BoxesCount:     s.BoxesCount,
		WeightKg:       s.WeightKg,
		VolumeM3:       s.VolumeM3,
		Comment:        s.Comment,
		ClientID:       s.ClientID.String(),
		TelegramID:     s.TelegramID,
		ClientUsername: s.ClientUsername,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func toRequestListResponse(items []domain.RequestSummary) []requestResponse {
	out := make([]requestResponse, 0, len(items))
	for i := range items {
		out = append(out, toRequestResponse(&items[i]))
	}
	return out
}

func toRequestDetailsResponse(d *domain.RequestDetails) requestDetailsResponse {
	history := make([]historyEntryResponse, 0, len(d.History))
	for _, e := range d.History {
		entry := historyEntryResponse{
			ID:        e.ID.String(),
			EventType: string(e.EventType),
			ActorType: string(e.ActorType),
			Comment:   e.Comment,
			CreatedAt: e.CreatedAt,
		}
		if e.FromStatus != nil {
			s := string(*e.FromStatus)
			entry.FromStatus = &s
		}
		if e.ToStatus != nil {
			s := string(*e.ToStatus)
			entry.ToStatus = &s
		}
		if e.ActorID != nil {
			id := e.ActorID.String()
			entry.ActorID = &id
		}
		history = append(history, entry)
	}
	return requestDetailsResponse{
		requestResponse: toRequestResponse(&d.RequestSummary),
		History:         history,
	}
}

type directionResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

func toDirectionResponse(d *domain.Direction) directionResponse {
	return directionResponse{
		ID:        d.ID.String(),
		Name:      d.Name,
		Active:    d.Active,
		CreatedAt: d.CreatedAt,
	}
}

type slotResponse struct {
	ID          string    `json:"id"`
	DirectionID *string   `json:"directionId,omitempty"`
	Date        string    `json:"date"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toSlotResponse(s *domain.DeliverySlot) slotResponse {
	resp := slotResponse{
		ID:        s.ID.String(),
		Date:      s.Date.Format("2006-01-02"),
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
	}
	if s.DirectionID != nil {
		id := s.DirectionID.String()
		resp.DirectionID = &id
	}
	return resp
}

type clientResponse struct {
	ID                string     `json:"id"`
	TelegramID        int64      `json:"telegramId"`
	Username          *string    `json:"username,omitempty"`
	FirstName         *string    `json:"firstName,omitempty"`
	LastName          *string    `json:"lastName,omitempty"`
	ConsentVersion    *string    `json:"consentVersion,omitempty"`
	ConsentAcceptedAt *time.Time `json:"consentAcceptedAt,omitempty"`
	RequestsCount     int        `json:"requestsCount"`
	CreatedAt         time.Time  `json:"createdAt"`
}

func toClientResponse(c *domain.ClientSummary) clientResponse {
	return clientResponse{
		ID:                c.ID.String(),
		TelegramID:        c.TelegramID,
		Username:          c.Username,
		FirstName:         c.FirstName,
		LastName:          c.LastName,
		ConsentVersion:    c.ConsentVersion,
		ConsentAcceptedAt: c.ConsentAcceptedAt,
		RequestsCount:     c.RequestsCount,
		CreatedAt:         c.CreatedAt,
	}
}

type organizationResponse struct {
	ID                   string    `json:"id"`
	ClientID             string    `json:"clientId"`
	Name                 string    `json:"name"`
	INN                  *string   `json:"inn,omitempty"`
	KPP                  *string   `json:"kpp,omitempty"`
	OGRN                 *string   `json:"ogrn,omitempty"`
	Address              *string   `json:"address,omitempty"`
	SettlementAccount    *string   `json:"settlementAccount,omitempty"`
	BIK                  *string   `json:"bik,omitempty"`
	CorrespondentAccount *string   `json:"correspondentAccount,omitempty"`
	Bank                 *string   `json:"bank,omitempty"`
	Director             *string   `json:"director,omitempty"`
	Contract             *string   `json:"contract,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

func toOrganizationResponse(o *domain.Organization) organizationResponse {
	return organizationResponse{
		ID:                   o.ID.String(),
		ClientID:             o.ClientID.String(),
		Name:                 o.Name,
		INN:                  o.INN,
		KPP:                  o.KPP,
		OGRN:                 o.OGRN,
		Address:              o.Address,
		SettlementAccount:    o.SettlementAccount,
		BIK:                  o.BIK,
		CorrespondentAccount: o.CorrespondentAccount,
		Bank:                 o.Bank,
		Director:             o.Director,
		Contract:             o.Contract,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
}
