// Package spectral builds band-arithmetic expressions for common remote
// sensing indices on top of package wcps. Band names vary per product
// (Sentinel-2 calls the near infrared band B08, Landsat 8 calls it B5), so
// every index takes a Bands mapping from band role to the coverage's band
// name and validates that the roles it needs are filled.
package spectral

import (
	"fmt"
	"sort"

	"github.com/rasdaman/wcps-go-client/pkg/wcps"
)

// Bands maps band roles to the band names of a concrete coverage. Fill
// only the roles the chosen index needs.
type Bands struct {
	Red    string
	Green  string
	Blue   string
	NIR    string
	SWIR16 string // shortwave infrared around 1.6 um
	SWIR22 string // shortwave infrared around 2.2 um
}

// Sentinel2 is the band mapping of Sentinel-2 L1C/L2A products.
var Sentinel2 = Bands{
	Red:    "B04",
	Green:  "B03",
	Blue:   "B02",
	NIR:    "B08",
	SWIR16: "B11",
	SWIR22: "B12",
}

// Landsat8 is the band mapping of Landsat 8 OLI products.
var Landsat8 = Bands{
	Red:    "B4",
	Green:  "B3",
	Blue:   "B2",
	NIR:    "B5",
	SWIR16: "B6",
	SWIR22: "B7",
}

// Builder constructs one index expression over a coverage.
type Builder func(cov wcps.Expr, b Bands) (wcps.Expr, error)

// Index describes one supported spectral index.
type Index struct {
	Name    string
	Formula string
	// Requires lists the band roles the index needs.
	Requires []string

	build Builder
}

var indexes = map[string]Index{
	"NDVI": {
		Name: "NDVI", Formula: "(nir - red) / (nir + red)",
		Requires: []string{"nir", "red"}, build: NDVI,
	},
	"NDWI": {
		Name: "NDWI", Formula: "(green - nir) / (green + nir)",
		Requires: []string{"green", "nir"}, build: NDWI,
	},
	"GNDVI": {
		Name: "GNDVI", Formula: "(nir - green) / (nir + green)",
		Requires: []string{"nir", "green"}, build: GNDVI,
	},
	"NDSI": {
		Name: "NDSI", Formula: "(green - swir16) / (green + swir16)",
		Requires: []string{"green", "swir16"}, build: NDSI,
	},
	"NDMI": {
		Name: "NDMI", Formula: "(nir - swir16) / (nir + swir16)",
		Requires: []string{"nir", "swir16"}, build: NDMI,
	},
	"NBR": {
		Name: "NBR", Formula: "(nir - swir22) / (nir + swir22)",
		Requires: []string{"nir", "swir22"}, build: NBR,
	},
	"EVI": {
		Name: "EVI", Formula: "2.5 * (nir - red) / (nir + 6*red - 7.5*blue + 1)",
		Requires: []string{"nir", "red", "blue"}, build: EVI,
	},
	"SAVI": {
		Name: "SAVI", Formula: "1.5 * (nir - red) / (nir + red + 0.5)",
		Requires: []string{"nir", "red"}, build: SAVI,
	},
	"MSAVI": {
		Name: "MSAVI", Formula: "(2*nir + 1 - sqrt((2*nir + 1)^2 - 8*(nir - red))) / 2",
		Requires: []string{"nir", "red"}, build: MSAVI,
	},
	"ARVI": {
		Name: "ARVI", Formula: "(nir - (2*red - blue)) / (nir + (2*red - blue))",
		Requires: []string{"nir", "red", "blue"}, build: ARVI,
	},
	"BSI": {
		Name: "BSI", Formula: "((swir16 + red) - (nir + blue)) / ((swir16 + red) + (nir + blue))",
		Requires: []string{"swir16", "red", "nir", "blue"}, build: BSI,
	},
	"AFRI1600": {
		Name: "AFRI1600", Formula: "(nir - 0.66*swir16) / (nir + 0.66*swir16)",
		Requires: []string{"nir", "swir16"}, build: AFRI1600,
	},
}

// Names lists the supported index names, sorted.
func Names() []string {
	names := make([]string, 0, len(indexes))
	for name := range indexes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe looks up an index descriptor by name.
func Describe(name string) (Index, bool) {
	idx, ok := indexes[name]
	return idx, ok
}

// Build constructs the named index over the coverage. Unknown names are an
// error; see Names.
func Build(name string, cov wcps.Expr, b Bands) (wcps.Expr, error) {
	idx, ok := indexes[name]
	if !ok {
		return wcps.Expr{}, fmt.Errorf("spectral: unknown index %q", name)
	}
	return idx.build(cov, b)
}

func require(index string, roles map[string]string) error {
	for role, name := range roles {
		if name == "" {
			return fmt.Errorf("spectral: %s requires the %s band", index, role)
		}
	}
	return nil
}

// normDiff is the normalized difference (a - b) / (a + b) used by the
// ND* family.
func normDiff(a, b wcps.Expr) wcps.Expr {
	return a.Sub(b).Div(a.Add(b))
}

// NDVI is the normalized difference vegetation index,
// (nir - red) / (nir + red).
func NDVI(cov wcps.Expr, b Bands) (wcps.Expr, error) {
	if err := require("NDVI", map[string]string{"nir": b.NIR, "red": b.Red}); err != nil {
		return wcps.Expr{}, err
	}
	return normDiff(cov.Band(b.NIR), cov.Band(b.Red)), nil
}

// NDWI is the normalized difference water index (McFeeters),
// (green - nir) / (green + nir).
func NDWI(cov wcps.Expr, b Bands) (wcps.Expr, error) {
	if err := require("NDWI", map[string]string{"green": b.Green, "nir": b.NIR}); err != nil {
		return wcps.Expr{}, err
	}
	return normDiff(cov.Band(b.Green), cov.Band(b.NIR)), nil
}

// GNDVI is the green normalized difference vegetation index,
// (nir - green) / (nir + green).
func GNDVI(cov wcps.Expr, b Bands) (wcps.Expr, error) {
	if err := require("GNDVI", map[string]string{"nir": b.NIR, "green": b.Green}); err != nil {
		return wcps.Expr{}, err
	}
	return normDiff(cov.Band(b.NIR), cov.Band(b.Green)), nil
}

// NDSI is the normalized difference snow index,
// (green - swir16) / (green + swir16).
func NDSI(cov wcps.Expr, b Bands) (wcps.Expr, error) {
	if err := require("NDSI", map[string]string{"green": b.Green, "swir16": b.SWIR16}); err != nil {
		return wcps.Expr{}, err
	}
	return normDiff(cov.Band(b.Green), cov.Band(b.SWIR16)), nil
}

// NDMI is the normalized difference moisture index,
// (nir - swir16) / (nir + swir16).
func NDMI(cov wcps.Expr, b Bands) (wcps.Expr, error) {
	if err := require("NDMI", map[string]string{"nir": b.NIR, "swir16": b.SWIR16}); err != nil {
		return wcps.Expr{}, err
	}
	return normDiff(cov.Band(b.NIR), cov.Band(b.SWIR16)), nil
}

// NBR is the normalized burn ratio, (nir - swir22) / (nir + swir22).
func NBR(cov wcps.Expr, b Bands) (wcps.Expr, error) {
	if err := require("NBR", map[string]string{"nir": b.NIR, "swir22": b.SWIR22}); err != nil {
		return wcps.Expr{}, err
	}
	return normDiff(cov.Band(b.NIR), cov.Band(b.SWIR22)), nil
}

// EVI is the enhanced vegetation index,
// 2.5 * (nir - red) / (nir + 6*red - 7.5*blue + 1).
func EVI(cov wcps.Expr, b Bands) (wcps.Expr, error) {
	roles := map[string]string{"nir": b.NIR, "red": b.Red, "blue": b.Blue}
	if err := require("EVI", roles); err != nil {
		return wcps.Expr{}, err
	}
	nir, red, blue := cov.Band(b.NIR), cov.Band(b.Red), cov.Band(b.Blue)
	denom := nir.Add(red.Mul(6.0)).Sub(blue.Mul(7.5)).Add(1.0)
	return nir.Sub(red).Mul(2.5).Div(denom), nil
}

// SAVI is the soil adjusted vegetation index with L = 0.5,
// 1.5 * (nir - red) / (nir + red + 0.5).
func SAVI(cov wcps.Expr, b Bands) (wcps.Expr, error) {
	if err := require("SAVI", map[string]string{"nir": b.NIR, "red": b.Red}); err != nil {
		return wcps.Expr{}, err
	}
	nir, red := cov.Band(b.NIR), cov.Band(b.Red)
	return nir.Sub(red).Mul(1.5).Div(nir.Add(red).Add(0.5)), nil
}

// MSAVI is the modified soil adjusted vegetation index,
// (2*nir + 1 - sqrt((2*nir + 1)^2 - 8*(nir - red))) / 2.
func MSAVI(cov wcps.Expr, b Bands) (wcps.Expr, error) {
	if err := require("MSAVI", map[string]string{"nir": b.NIR, "red": b.Red}); err != nil {
		return wcps.Expr{}, err
	}
	nir, red := cov.Band(b.NIR), cov.Band(b.Red)
	twoNirPlusOne := nir.Mul(2.0).Add(1.0)
	discr := twoNirPlusOne.Pow(2.0).Sub(nir.Sub(red).Mul(8.0))
	return twoNirPlusOne.Sub(discr.Sqrt()).Div(2.0), nil
}

// ARVI is the atmospherically resistant vegetation index with gamma = 1,
// (nir - (2*red - blue)) / (nir + (2*red - blue)).
func ARVI(cov wcps.Expr, b Bands) (wcps.Expr, error) {
	roles := map[string]string{"nir": b.NIR, "red": b.Red, "blue": b.Blue}
	if err := require("ARVI", roles); err != nil {
		return wcps.Expr{}, err
	}
	nir := cov.Band(b.NIR)
	rb := cov.Band(b.Red).Mul(2.0).Sub(cov.Band(b.Blue))
	return normDiff(nir, rb), nil
}

// BSI is the bare soil index,
// ((swir16 + red) - (nir + blue)) / ((swir16 + red) + (nir + blue)).
func BSI(cov wcps.Expr, b Bands) (wcps.Expr, error) {
	roles := map[string]string{
		"swir16": b.SWIR16, "red": b.Red, "nir": b.NIR, "blue": b.Blue,
	}
	if err := require("BSI", roles); err != nil {
		return wcps.Expr{}, err
	}
	bright := cov.Band(b.SWIR16).Add(cov.Band(b.Red))
	dark := cov.Band(b.NIR).Add(cov.Band(b.Blue))
	return normDiff(bright, dark), nil
}

// AFRI1600 is the aerosol free vegetation index,
// (nir - 0.66*swir16) / (nir + 0.66*swir16).
func AFRI1600(cov wcps.Expr, b Bands) (wcps.Expr, error) {
	if err := require("AFRI1600", map[string]string{"nir": b.NIR, "swir16": b.SWIR16}); err != nil {
		return wcps.Expr{}, err
	}
	nir := cov.Band(b.NIR)
	swir := cov.Band(b.SWIR16).Mul(0.66)
	return normDiff(nir, swir), nil
}
