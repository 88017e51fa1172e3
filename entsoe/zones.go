package entsoe

import (
	"fmt"
	"strings"

	"dayahead/types"
)

// ZoneCodes maps country codes to the EIC codes of their bidding zones.
var ZoneCodes = map[string]string{
	"CY": "10YCY-TSO------Q",
	"GR": "10YGR-HTSO------",
	"DE": "10Y1001A1001A83F",
	"FR": "10YFR-RTE------C",
	"IT": "10YIT-GRTN-----B",
	"ES": "10YES-REE------0",
	"NL": "10YNL----------L",
	"BE": "10YBE----------2",
}

func ZoneCode(country string) (string, error) {
	eic, ok := ZoneCodes[strings.ToUpper(country)]
	if !ok {
		return "", &types.FetchError{Reason: fmt.Sprintf("unsupported bidding zone %q", country)}
	}
	return eic, nil
}
