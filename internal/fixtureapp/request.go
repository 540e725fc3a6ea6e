package fixtureapp

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/transportqa/suite/internal/datetime"
)

// RequestStatus represents the lifecycle state of a transport request
type RequestStatus string

// Request statuses
const (
	RequestStatusDraft     RequestStatus = "draft"
	RequestStatusSent      RequestStatus = "sent"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// PickupTypePickupPoint is the only pickup type the wizard offers.
const PickupTypePickupPoint = "pickup_point"

// TransportRequest is a shipment a shipper asks carriers to quote.
type TransportRequest struct {
	ID              int
	Owner           string
	PickupType      string
	PickupEarliest  datetime.Timestamp
	PickupLatest    datetime.Timestamp
	PickupCity      string
	PickupCountry   string
	DeliveryLatest  datetime.Timestamp
	DeliveryCity    string
	DeliveryCountry string
	CarrierIDs      []string
	Status          RequestStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RequestInput is the raw wizard submission.
type RequestInput struct {
	PickupType      string
	PickupEarliest  string
	PickupLatest    string
	PickupCity      string
	PickupCountry   string
	DeliveryLatest  string
	DeliveryCity    string
	DeliveryCountry string
	CarrierIDs      []string
}

// Domain errors
var (
	ErrMissingPickupWindow     = errors.New("pickup window is required")
	ErrInvalidPickupWindow     = errors.New("earliest pickup must not be after latest pickup")
	ErrMissingPickupCity       = errors.New("pickup city is required")
	ErrMissingPickupCountry    = errors.New("pickup country is required")
	ErrMissingDeliveryDate     = errors.New("latest delivery date is required")
	ErrDeliveryBeforePickup    = errors.New("latest delivery must not be before latest pickup")
	ErrMissingDeliveryCity     = errors.New("delivery city is required")
	ErrMissingDeliveryCountry  = errors.New("delivery country is required")
	ErrNoCarrier               = errors.New("at least one carrier must be selected")
	ErrInvalidStatusTransition = errors.New("invalid request status transition")
)

// NewTransportRequest validates in and builds a draft request owned by owner.
func NewTransportRequest(in RequestInput, owner string, now time.Time) (*TransportRequest, error) {
	if strings.TrimSpace(in.PickupEarliest) == "" || strings.TrimSpace(in.PickupLatest) == "" {
		return nil, ErrMissingPickupWindow
	}
	earliest, err := datetime.Parse(strings.TrimSpace(in.PickupEarliest))
	if err != nil {
		return nil, fmt.Errorf("earliest pickup: %w", err)
	}
	latest, err := datetime.Parse(strings.TrimSpace(in.PickupLatest))
	if err != nil {
		return nil, fmt.Errorf("latest pickup: %w", err)
	}
	if latest.Before(earliest) {
		return nil, ErrInvalidPickupWindow
	}
	if strings.TrimSpace(in.PickupCity) == "" {
		return nil, ErrMissingPickupCity
	}
	if in.PickupCountry == "" {
		return nil, ErrMissingPickupCountry
	}

	if strings.TrimSpace(in.DeliveryLatest) == "" {
		return nil, ErrMissingDeliveryDate
	}
	delivery, err := datetime.Parse(strings.TrimSpace(in.DeliveryLatest))
	if err != nil {
		return nil, fmt.Errorf("latest delivery: %w", err)
	}
	if delivery.Before(latest) {
		return nil, ErrDeliveryBeforePickup
	}
	if strings.TrimSpace(in.DeliveryCity) == "" {
		return nil, ErrMissingDeliveryCity
	}
	if in.DeliveryCountry == "" {
		return nil, ErrMissingDeliveryCountry
	}
	if len(in.CarrierIDs) == 0 {
		return nil, ErrNoCarrier
	}

	pickupType := in.PickupType
	if pickupType == "" {
		pickupType = PickupTypePickupPoint
	}

	return &TransportRequest{
		Owner:           owner,
		PickupType:      pickupType,
		PickupEarliest:  earliest,
		PickupLatest:    latest,
		PickupCity:      strings.TrimSpace(in.PickupCity),
		PickupCountry:   in.PickupCountry,
		DeliveryLatest:  delivery,
		DeliveryCity:    strings.TrimSpace(in.DeliveryCity),
		DeliveryCountry: in.DeliveryCountry,
		CarrierIDs:      append([]string(nil), in.CarrierIDs...),
		Status:          RequestStatusDraft,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Send hands a draft request to the selected carriers.
func (r *TransportRequest) Send(now time.Time) error {
	if r.Status != RequestStatusDraft {
		return fmt.Errorf("%w: cannot send request with status %s", ErrInvalidStatusTransition, r.Status)
	}
	r.Status = RequestStatusSent
	r.UpdatedAt = now
	return nil
}

// Cancel withdraws a request that has not been cancelled yet.
func (r *TransportRequest) Cancel(now time.Time) error {
	if r.Status == RequestStatusCancelled {
		return fmt.Errorf("%w: request is already cancelled", ErrInvalidStatusTransition)
	}
	r.Status = RequestStatusCancelled
	r.UpdatedAt = now
	return nil
}

// Label is how the request list shows the request, e.g. "#1000".
func (r *TransportRequest) Label() string {
	return fmt.Sprintf("#%d", r.ID)
}
