package core

// DirectionSign returns +1 for entry types that increase an account balance
// and -1 for types that decrease it. Opening balances are recorded as OTHER
// and count as an increase.
func DirectionSign(t EntryType) int {
	switch t {
	case EntryExpense, EntryTransferOut, EntryDebtRepaid:
		return -1
	default:
		return 1
	}
}

// ValidEntryType reports whether t is one of the known ledger entry types.
func ValidEntryType(t EntryType) bool {
	switch t {
	case EntryIncome, EntryExpense, EntryTransferIn, EntryTransferOut,
		EntryDebtTaken, EntryDebtRepaid, EntryOther:
		return true
	}
	return false
}

// ValidAccountType reports whether t is a known account type.
func ValidAccountType(t AccountType) bool {
	switch t {
	case AccountCash, AccountBank, AccountMobileMoney:
		return true
	}
	return false
}

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case MethodCash, MethodBank, MethodMobileMoney:
		return true
	}
	return false
}
