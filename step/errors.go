package step

import "github.com/xDarkicex/hmsolve/core"

func exhaustionErr(op, msg string) error {
	return core.NewExhaustion(op, msg)
}

func contradictionErr(op, msg string) error {
	return core.NewContradiction(op, msg)
}
