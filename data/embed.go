// Package data bundles sample supplier price lists.
package data

import (
	_ "embed"
)

// SamplePriceList is a complete supplier document in the import format.
//
//go:embed pricelists/shop1.yaml
var SamplePriceList []byte
