package wallet

import (
	"github.com/shopspring/decimal"

	"github.com/bstrange24/XRPL-Utility-sub000/internal/xrpl"
)

// ReserveCalculator computes the XRP an account cannot spend. Base and
// Increment are configuration rather than constants because networks adjust
// them by amendment.
type ReserveCalculator struct {
	Base      decimal.Decimal
	Increment decimal.Decimal
}

// DefaultReserves returns the mainnet reserve schedule: 10 XRP base plus
// 2 XRP per owned object.
func DefaultReserves() ReserveCalculator {
	return ReserveCalculator{
		Base:      decimal.NewFromInt(10),
		Increment: decimal.NewFromInt(2),
	}
}

// Compute returns the account's owner count and total reserve in XRP.
func (r ReserveCalculator) Compute(info *xrpl.AccountInfoResult) (ownerCount uint32, total decimal.Decimal) {
	ownerCount = info.AccountData.OwnerCount
	total = r.Base.Add(r.Increment.Mul(decimal.NewFromInt(int64(ownerCount))))
	return ownerCount, total
}
