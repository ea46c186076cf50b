// Package sampledata ships a small penguin survey table used by tests and
// the demo seed endpoint. Body mass and sex carry missing values, as the
// field data did.
package sampledata

import (
	"github.com/floedata/floe/frame"
	"github.com/floedata/floe/utils"
)

func Penguins() *frame.Table {
	return frame.MustNew(
		frame.Strings("species", "Adelie", "Adelie", "Adelie", "Chinstrap", "Chinstrap", "Gentoo", "Gentoo", "Gentoo"),
		frame.Strings("island", "Torgersen", "Torgersen", "Dream", "Dream", "Dream", "Biscoe", "Biscoe", "Biscoe"),
		frame.FloatsPtr("bill_length_mm",
			utils.Ptr(39.1), utils.Ptr(39.5), utils.Ptr(38.6), utils.Ptr(46.5), utils.Ptr(50.3), utils.Ptr(47.5), nil, utils.Ptr(49.1)),
		frame.FloatsPtr("bill_depth_mm",
			utils.Ptr(18.7), utils.Ptr(17.4), utils.Ptr(17.2), utils.Ptr(17.9), utils.Ptr(20.0), utils.Ptr(15.0), nil, utils.Ptr(14.8)),
		frame.IntsPtr("flipper_length_mm",
			utils.Ptr(int64(181)), utils.Ptr(int64(186)), utils.Ptr(int64(185)), utils.Ptr(int64(192)), utils.Ptr(int64(197)), utils.Ptr(int64(218)), nil, utils.Ptr(int64(220))),
		frame.IntsPtr("body_mass_g",
			utils.Ptr(int64(3750)), utils.Ptr(int64(3800)), utils.Ptr(int64(3700)), utils.Ptr(int64(3500)), nil, utils.Ptr(int64(5100)), utils.Ptr(int64(4850)), utils.Ptr(int64(5400))),
		frame.StringsPtr("sex",
			utils.Ptr("male"), utils.Ptr("female"), utils.Ptr("female"), utils.Ptr("female"), utils.Ptr("male"), utils.Ptr("female"), nil, utils.Ptr("male")),
		frame.Ints("year", 2007, 2007, 2008, 2008, 2009, 2008, 2009, 2009),
	)
}

// PenguinsNDJSON is the same survey in the line-delimited JSON shape the
// ingest path accepts
const PenguinsNDJSON = `{"species":"Adelie","island":"Torgersen","bill_length_mm":39.1,"bill_depth_mm":18.7,"flipper_length_mm":181,"body_mass_g":3750,"sex":"male","year":2007}
{"species":"Adelie","island":"Torgersen","bill_length_mm":39.5,"bill_depth_mm":17.4,"flipper_length_mm":186,"body_mass_g":3800,"sex":"female","year":2007}
{"species":"Adelie","island":"Dream","bill_length_mm":38.6,"bill_depth_mm":17.2,"flipper_length_mm":185,"body_mass_g":3700,"sex":"female","year":2008}
{"species":"Chinstrap","island":"Dream","bill_length_mm":46.5,"bill_depth_mm":17.9,"flipper_length_mm":192,"body_mass_g":3500,"sex":"female","year":2008}
{"species":"Chinstrap","island":"Dream","bill_length_mm":50.3,"bill_depth_mm":20,"flipper_length_mm":197,"body_mass_g":null,"sex":"male","year":2009}
{"species":"Gentoo","island":"Biscoe","bill_length_mm":47.5,"bill_depth_mm":15,"flipper_length_mm":218,"body_mass_g":5100,"sex":"female","year":2008}
{"species":"Gentoo","island":"Biscoe","bill_length_mm":null,"bill_depth_mm":null,"flipper_length_mm":null,"body_mass_g":4850,"sex":null,"year":2009}
{"species":"Gentoo","island":"Biscoe","bill_length_mm":49.1,"bill_depth_mm":14.8,"flipper_length_mm":220,"body_mass_g":5400,"sex":"male","year":2009}
`
