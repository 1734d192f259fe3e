package dto

import (
	"rhx/internal/domains/ledger/model"
	"rhx/shared"
	"rhx/shared/constant"
	"rhx/shared/timezone"

	"github.com/google/uuid"
)

type RecordRequest struct {
	UserID      string  `validate:"required"`
	Amount      int     `validate:"required"`
	Type        string  `validate:"required,oneof=booking_payment booking_earning booking_refund host_penalty subscription_bonus"`
	BookingID   *string `validate:"omitempty"`
	Description string  `validate:"omitempty,max=300"`
}

func (r *RecordRequest) ToModel(user string) model.PointsTransaction {
	return model.PointsTransaction{
		ID:          uuid.NewString(),
		UserID:      r.UserID,
		BookingID:   r.BookingID,
		Amount:      r.Amount,
		Type:        r.Type,
		Description: r.Description,
		CreatedAt:   timezone.Now(),
		CreatedBy:   user,
	}
}

type GrantBonusRequest struct {
	UserID      string `json:"user_id"     validate:"required"`
	Amount      int    `json:"amount"      validate:"required,gt=0"`
	Description string `json:"description" validate:"omitempty,max=300"`
}

type TransactionResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	BookingID   *string `json:"booking_id,omitempty"`
	Amount      int     `json:"amount"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	CreatedAt   string  `json:"created_at"`
}

func (r *TransactionResponse) FromModel(model model.PointsTransaction) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.BookingID = model.BookingID
	r.Amount = model.Amount
	r.Type = model.Type
	r.Description = model.Description
	r.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)
}

type BalanceResponse struct {
	UserID  string `json:"user_id"`
	Balance int    `json:"balance"`
}

type GetTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetTransactionsResponse) FromModels(models []model.PointsTransaction, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Transactions = make([]TransactionResponse, len(models))
	for i, mod := range models {
		r.Transactions[i].FromModel(mod)
	}
}
