package dataset

import "github.com/epochml/epoch-ml/internal/models"

// builtinDatasets are the reference datasets the bundled trainer scripts know
// how to load. Their ids are stable and shared with the training scripts.
func builtinDatasets() []models.Dataset {
	return []models.Dataset{
		{
			ID:          "dataset-1",
			Name:        "MNIST",
			Description: "Handwritten digits, 28x28 grayscale images across 10 classes.",
			Kind:        models.DatasetKindImage,
			Source:      models.DatasetSourceBuiltin,
			RecordCount: 70000,
		},
		{
			ID:          "dataset-2",
			Name:        "CIFAR-10",
			Description: "32x32 color images across 10 object classes.",
			Kind:        models.DatasetKindImage,
			Source:      models.DatasetSourceBuiltin,
			RecordCount: 60000,
		},
		{
			ID:          "dataset-9",
			Name:        "Boston Housing",
			Description: "Housing prices with 13 numeric features per sample.",
			Kind:        models.DatasetKindTabular,
			Source:      models.DatasetSourceBuiltin,
			RecordCount: 506,
		},
		{
			ID:          "dataset-13",
			Name:        "Stock Prices (AAPL)",
			Description: "Daily AAPL closing prices fetched at training time.",
			Kind:        models.DatasetKindTimeseries,
			Source:      models.DatasetSourceBuiltin,
		},
	}
}
