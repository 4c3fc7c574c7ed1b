package domain

import "time"

type WalletEntryType string

const (
	WalletEntryDebit  WalletEntryType = "DEBIT"
	WalletEntryCredit WalletEntryType = "CREDIT"
	WalletEntryTopUp  WalletEntryType = "TOP_UP"
)

// WalletAccount is a holder's prepaid balance. The balance column is kept in
// lockstep with the sum of the entries by the wallet repository's
// single-statement debit/credit updates; it never goes negative.
type WalletAccount struct {
	HolderID     int64     `json:"holder_id"`
	BalanceCents int64     `json:"balance_cents"`
	CreatedOn    time.Time `json:"created_on"`
	UpdatedOn    time.Time `json:"updated_on"`
}

// WalletEntry is one append-only ledger line. Amount is positive for credits
// and negative for debits.
type WalletEntry struct {
	ID            int64           `json:"id"`
	HolderID      int64           `json:"holder_id"`
	AmountCents   int64           `json:"amount_cents"`
	Type          WalletEntryType `json:"type"`
	ReservationID *int64          `json:"reservation_id,omitempty"`
	Reference     string          `json:"reference"`
	Description   string          `json:"description"`
	CreatedOn     time.Time       `json:"created_on"`
}
