// Package atlasbuild turns a target roster into point-estimate
// LocationRecords, enriching each target with deterministic mock
// climate and terrain data plus the configured scenario defaults. The
// output is the batch the Monte Carlo engine consumes.
package atlasbuild

import (
	"fmt"
	"log/slog"

	"github.com/talgya/risk-atlas/internal/atlas"
	"github.com/talgya/risk-atlas/internal/mockdata"
	"github.com/talgya/risk-atlas/internal/targets"
)

// Defaults are the scenario inputs applied to every target of the
// matching project type.
type Defaults struct {
	SLRProjectionM           float64
	RainIntensityIncreasePct float64
}

// StandardDefaults mirrors the scenario used for the published atlas.
func StandardDefaults() Defaults {
	return Defaults{
		SLRProjectionM:           1.0,
		RainIntensityIncreasePct: 25.0,
	}
}

// Build maps each target to a LocationRecord with its point-estimate
// base parameters filled in. Targets with coordinates outside valid
// ranges fail the whole build; a bad roster is a configuration error,
// not a per-location condition.
func Build(list []targets.Target, def Defaults) ([]atlas.LocationRecord, error) {
	records := make([]atlas.LocationRecord, 0, len(list))

	for _, t := range list {
		rec := atlas.LocationRecord{
			Name:        t.Name,
			ProjectType: t.ProjectType,
			Location:    atlas.Coordinates{Lat: t.Lat, Lon: t.Lon},
		}

		switch t.ProjectType {
		case atlas.ProjectAgriculture:
			weather, err := mockdata.GetWeather(t.Lat, t.Lon)
			if err != nil {
				return nil, fmt.Errorf("target %q: %w", t.Name, err)
			}
			temp := weather.MaxTempC
			rain := weather.TotalPrecipMM
			rec.ClimateConditions = &atlas.ClimateConditions{
				TemperatureC: &temp,
				RainfallMM:   &rain,
				ClimateZone:  weather.ClimateZone,
				DataSource:   "mock_data",
			}
			crop := t.CropType
			if crop == "" {
				crop = "maize"
			}
			rec.CropAnalysis = &atlas.CropAnalysis{CropType: crop}

		case atlas.ProjectCoastal:
			slr := def.SLRProjectionM
			rec.InputConditions = &atlas.InputConditions{SLRProjectionM: &slr}

			coastal, err := mockdata.GetCoastalParams(t.Lat, t.Lon)
			if err != nil {
				return nil, fmt.Errorf("target %q: %w", t.Name, err)
			}
			elev, err := mockdata.GetElevation(t.Lat, t.Lon)
			if err != nil {
				return nil, fmt.Errorf("target %q: %w", t.Name, err)
			}
			rec.CoastalConditions = &atlas.CoastalConditions{
				SlopePct:      coastal.SlopePct,
				MaxWaveHeight: coastal.MaxWaveHeight,
				ElevationM:    elev,
			}

		case atlas.ProjectFlood:
			intensity := def.RainIntensityIncreasePct
			rec.InputConditions = &atlas.InputConditions{RainIntensityIncreasePct: &intensity}

		default:
			// Passed through unenriched; the engine reports it per record.
			slog.Warn("unknown project type in roster", "name", t.Name, "project_type", t.ProjectType)
		}

		records = append(records, rec)
	}

	return records, nil
}
