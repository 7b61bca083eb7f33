package domain

// CanModify reports whether the requester may mutate or read the given order:
// admins always, everyone else only on orders they own. Callers must check
// order existence first so an absent order surfaces as not-found, never as a
// permission failure.
func CanModify(requester *User, order *Order) bool {
	if requester == nil || order == nil {
		return false
	}
	return requester.Admin || requester.ID == order.UserID
}

// CanListAll reports whether the requester may list every order in the system.
func CanListAll(requester *User) bool {
	return requester != nil && requester.Admin
}
