package common

import (
	"encoding/binary"
)

const (
	claimPrefix         = 0x01
	withdrawPrefix      = 0x02
	transferPricePrefix = 0x03
	budgetPrefix        = 0x04
)

// ClaimTransferDetails returns TransferX details of the reward claimed by the
// channel.
func ClaimTransferDetails(channelID uint64) []byte {
	return binary.LittleEndian.AppendUint64([]byte{claimPrefix}, channelID)
}

// WithdrawTransferDetails returns TransferX details of the withdrawal from the
// channel account.
func WithdrawTransferDetails(channelID uint64) []byte {
	return binary.LittleEndian.AppendUint64([]byte{withdrawPrefix}, channelID)
}

// TransferPriceDetails returns TransferX details of the payment for channel
// ownership transfer.
func TransferPriceDetails(channelID, transferID uint64) []byte {
	b := binary.LittleEndian.AppendUint64([]byte{transferPricePrefix}, channelID)
	return binary.LittleEndian.AppendUint64(b, transferID)
}

// BudgetTransferDetails returns TransferX details of the budget movement.
func BudgetTransferDetails(kind byte) []byte {
	return []byte{budgetPrefix, kind}
}
