package ingest_test

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renjie/prism-lca/pkg/adapters/ingest"
	"github.com/renjie/prism-lca/pkg/core/domain"
)

const sampleCSV = "\ufeffproduct_id,product_name,life_cycle_stage,material_type,quantity_kg,energy_consumption_kwh,transport_mode,waste_generated_kg,recycling_rate,carbon_footprint_kg_co2e,water_usage_liters\n" +
	"P001,Product1,Manufacturing,steel,100,120,Truck,5,0.9,180,150\n" +
	"P001,Product1,Transportation,steel,100,20,Truck,0,0,50,30\n" +
	"P002,Product2,End-of-Life,aluminum,50,20,Truck,,0.85,5,6\n"

func TestCSVActivityIngestor(t *testing.T) {
	t.Parallel()

	ing := ingest.NewCSVActivityIngestor()
	table, result, err := ing.IngestStream(context.Background(), strings.NewReader(sampleCSV))
	require.NoError(t, err)

	// 1. Columns keep source order, BOM stripped
	assert.Equal(t, "product_id", table.Columns[0])
	assert.Equal(t, []string{
		"product_id", "product_name", "life_cycle_stage", "material_type", "quantity_kg",
		"energy_consumption_kwh", "transport_mode", "waste_generated_kg", "recycling_rate",
		"carbon_footprint_kg_co2e", "water_usage_liters",
	}, table.Columns)

	// 2. Records
	require.Equal(t, 3, table.Len())
	assert.Equal(t, &domain.IngestionResult{Total: 3, Success: 3}, result)

	first := table.Records[0]
	assert.Equal(t, "P001", first.ProductID)
	assert.Equal(t, "Manufacturing", first.LifeCycleStage)
	assert.Equal(t, 100.0, first.QuantityKg)
	assert.Equal(t, 180.0, first.CarbonFootprintKgCO2e)
	assert.Equal(t, 120.0, first.EnergyConsumptionKWh)
	assert.Equal(t, 150.0, first.WaterUsageLiters)
	assert.Equal(t, 5.0, first.WasteGeneratedKg)
	assert.Equal(t, map[string]string{"transport_mode": "Truck", "recycling_rate": "0.9"}, first.Extras)

	// 3. Empty numeric cell reads as zero
	assert.Zero(t, table.Records[2].WasteGeneratedKg)
}

func TestCSVActivityIngestorMissingColumns(t *testing.T) {
	t.Parallel()

	in := "product_id,product_name,life_cycle_stage,material_type,quantity_kg\nP001,A,use,steel,1\n"
	_, _, err := ingest.NewCSVActivityIngestor().IngestStream(context.Background(), strings.NewReader(in))
	require.ErrorIs(t, err, domain.ErrMissingColumn)
	assert.Contains(t, err.Error(), "carbon_footprint_kg_co2e")
	assert.Contains(t, err.Error(), "water_usage_liters")
}

func TestCSVActivityIngestorBadRows(t *testing.T) {
	t.Parallel()

	header := "product_id,product_name,life_cycle_stage,material_type,quantity_kg,carbon_footprint_kg_co2e,energy_consumption_kwh,water_usage_liters\n"

	tests := []struct {
		name string
		row  string
	}{
		{name: "non numeric quantity", row: "P001,A,use,steel,lots,1,1,1"},
		{name: "negative measurement", row: "P001,A,use,steel,1,-5,1,1"},
		{name: "empty product id", row: ",A,use,steel,1,1,1,1"},
		{name: "infinite measurement", row: "P001,A,use,steel,1,Inf,1,1"},
		{name: "signed infinite quantity", row: "P001,A,use,steel,+Inf,1,1,1"},
		{name: "spelled out infinity", row: "P001,A,use,steel,1,1,infinity,1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := header + "P000,ok,use,steel,1,1,1,1\n" + tt.row + "\n"
			table, result, err := ingest.NewCSVActivityIngestor().IngestStream(context.Background(), strings.NewReader(in))
			require.NoError(t, err)
			assert.Equal(t, 1, table.Len())
			assert.Equal(t, 2, result.Total)
			assert.Equal(t, 1, result.Failed)
			require.Len(t, result.Errors, 1)
			assert.Contains(t, result.Errors[0], "line 3")
		})
	}
}

func TestCSVActivityIngestorMissingCells(t *testing.T) {
	t.Parallel()

	in := "product_id,product_name,life_cycle_stage,material_type,quantity_kg,carbon_footprint_kg_co2e,energy_consumption_kwh,water_usage_liters,waste_generated_kg\n" +
		"P001,A,use,steel,NaN,12,1,1,1\n" +
		"P001,A,use,steel,2,NA,N/A,null,\n" +
		"P002,B,use,steel,3,4,5,6,<NA>\n"

	table, result, err := ingest.NewCSVActivityIngestor().IngestStream(context.Background(), strings.NewReader(in))
	require.NoError(t, err)
	assert.Zero(t, result.Failed)
	require.Equal(t, 3, table.Len())

	first := table.Records[0]
	assert.Zero(t, first.QuantityKg)
	assert.Equal(t, 12.0, first.CarbonFootprintKgCO2e)

	second := table.Records[1]
	assert.Zero(t, second.CarbonFootprintKgCO2e)
	assert.Zero(t, second.EnergyConsumptionKWh)
	assert.Zero(t, second.WaterUsageLiters)
	assert.Zero(t, second.WasteGeneratedKg)

	for _, r := range table.Records {
		for _, v := range []float64{r.QuantityKg, r.CarbonFootprintKgCO2e, r.EnergyConsumptionKWh, r.WaterUsageLiters, r.WasteGeneratedKg} {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		}
	}
}

func TestCSVActivityIngestorDelimiterAndEmpty(t *testing.T) {
	t.Parallel()

	in := "product_id;product_name;life_cycle_stage;material_type;quantity_kg;carbon_footprint_kg_co2e;energy_consumption_kwh;water_usage_liters\n" +
		"P001;A;use;steel;2.5;1;2;3\n"
	table, _, err := ingest.NewCSVActivityIngestor(ingest.WithDelimiter(';')).IngestStream(context.Background(), strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, 2.5, table.Records[0].QuantityKg)
	assert.Nil(t, table.Records[0].Extras)

	table, result, err := ingest.NewCSVActivityIngestor().IngestStream(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, table.Len())
	assert.Zero(t, result.Total)
}

func TestCSVActivityIngestorFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sample_data.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o600))

	table, _, err := ingest.NewCSVActivityIngestor().IngestFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	_, _, err = ingest.NewCSVActivityIngestor().IngestFile(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCSVActivityIngestorCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := ingest.NewCSVActivityIngestor().IngestStream(ctx, strings.NewReader(sampleCSV))
	assert.ErrorIs(t, err, context.Canceled)
}
