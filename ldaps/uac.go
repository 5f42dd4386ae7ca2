package ldaps

import (
	"fmt"
	"strconv"
)

// userAccountControl flag bits used by the reporter.
// https://learn.microsoft.com/en-us/windows/win32/adschema/a-useraccountcontrol
const (
	uacAccountDisable   = 0x2
	uacDontExpirePasswd = 0x10000
)

func parseUserAccountControl(value string) (uint32, error) {
	raw, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parse userAccountControl %q: %w", value, err)
	}
	return uint32(raw), nil
}

func accountDisabled(uac uint32) bool {
	return uac&uacAccountDisable != 0
}

func passwordNeverExpires(uac uint32) bool {
	return uac&uacDontExpirePasswd != 0
}
