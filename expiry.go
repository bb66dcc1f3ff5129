package sqlauth

// VetoExpiry reports whether an account-name expiry must be blocked. A name
// that is its group's primary display cannot expire while the group still
// has other aliases: reclaiming the primary would leave zombie aliases that
// can never authenticate again.
//
// The account's Group relation (with Aliases) must be loaded, as
// Accounts.FindByName does.
func VetoExpiry(account *Account) bool {
	if account == nil || account.Group == nil {
		return false
	}
	return account.Group.Display == account.Name && len(account.Group.Aliases) > 1
}

// PreExpire is the hook shape hosts wire into their expiry sweep: it flips
// expire to false when the mapping must be kept.
func PreExpire(account *Account, expire *bool) {
	if expire == nil {
		return
	}
	if VetoExpiry(account) {
		*expire = false
	}
}
