package user

import "errors"

var ErrUserNotFound = errors.New("user not found")

type User struct {
	Id          int
	Uid         string
	Username    string
	DisplayName string
	Settings    Settings
}

type Settings struct {
	// Timezone is an IANA zone name, e.g. "Africa/Casablanca".
	Timezone string
	// Currency is the display currency code for amounts, e.g. "MAD".
	Currency string
}
