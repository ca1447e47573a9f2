package baudot

import (
	"fmt"
	"strconv"
)

// XORCheck holds the operands of the K xor 5 = H table sanity check.
type XORCheck struct {
	K      string `json:"k"`
	Five   string `json:"five"`
	H      string `json:"h"`
	Result string `json:"result"`
}

// VerifyXORLogic checks that the Merged table satisfies K xor 5 = H, the
// relation operators used to confirm a teleprinter alphabet was transcribed
// correctly.
func VerifyXORLogic() (XORCheck, bool) {
	var check XORCheck
	var err error
	if check.K, err = Merged.SymbolToCode('K'); err != nil {
		return check, false
	}
	if check.Five, err = Merged.SymbolToCode('5'); err != nil {
		return check, false
	}
	if check.H, err = Merged.SymbolToCode('H'); err != nil {
		return check, false
	}

	k, _ := strconv.ParseUint(check.K, 2, CodeWidth)
	five, _ := strconv.ParseUint(check.Five, 2, CodeWidth)
	check.Result = fmt.Sprintf("%05b", k^five)

	return check, check.Result == check.H
}
