package importer

import (
	"path/filepath"

	"github.com/lbelectronica/sheetseed/pkg/sheetseed/models"
	"github.com/lbelectronica/sheetseed/pkg/sheetseed/output"
)

// Input holds the seed collections written by an extraction run.
type Input struct {
	PriceListSeeds  []models.PriceListSeed
	SeedProducts    []models.SeedProduct
	StockEntryItems []models.StockEntryItem
	Expenses        []models.ExpenseRecord
}

// LoadInput reads the seed files from dir. Every file must exist.
func LoadInput(dir string) (*Input, error) {
	in := &Input{}
	files := []struct {
		name string
		v    interface{}
	}{
		{output.SeedProductsFile, &in.SeedProducts},
		{output.PriceListSeedsFile, &in.PriceListSeeds},
		{output.StockEntryFile, &in.StockEntryItems},
		{output.ExpensesFile, &in.Expenses},
	}
	for _, f := range files {
		if err := output.ReadJSON(filepath.Join(dir, f.name), f.v); err != nil {
			return nil, err
		}
	}
	return in, nil
}
