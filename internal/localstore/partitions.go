package localstore

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/syndic/internal/models"
)

// Finance is the flattened content of every yearly partition.
type Finance struct {
	Payments      []models.Payment
	Expenses      []models.Expense
	AssetPayments []models.AssetPayment
}

// SavePartition overwrites both partitions of year with the items that belong
// to it. Items of other years in the inputs are ignored, and no other year is
// read or written. Expenses are filed by the year of their own date, or by
// the year they were loaded from when the date does not parse.
func (store *Store) SavePartition(year int, payments []models.Payment, expenses []models.Expense, assetPayments []models.AssetPayment) (bool, error) {
	partition := FinancePartition{
		Year:     year,
		Payments: make([]models.Payment, 0),
		Expenses: make([]models.Expense, 0),
	}
	for _, payment := range payments {
		if payment.Year == year {
			partition.Payments = append(partition.Payments, payment)
		}
	}
	for _, expense := range expenses {
		if expense.Year() == year {
			partition.Expenses = append(partition.Expenses, expense)
		}
	}

	assetPartition := AssetPaymentPartition{Year: year, Payments: make([]models.AssetPayment, 0)}
	for _, payment := range assetPayments {
		if payment.Year == year {
			assetPartition.Payments = append(assetPartition.Payments, payment)
		}
	}

	// The year is indexed before its keys so a stored partition is never
	// missing from the manifest. A degraded index write leaves the year as is.
	manifestSaved, err := store.recordYear(year)
	if err != nil || !manifestSaved {
		return false, err
	}

	financeSaved, err := store.saveEncoded(FinanceKey(year), func() (string, error) {
		return EncodeFinancePartition(partition)
	})
	if err != nil {
		return false, err
	}
	assetsSaved, err := store.saveEncoded(AssetPaymentKey(year), func() (string, error) {
		return EncodeAssetPaymentPartition(assetPartition)
	})
	if err != nil {
		return false, err
	}
	return financeSaved && assetsSaved, nil
}

// LoadAllPartitions concatenates every known year in ascending order. Years
// come from the manifest; without one the keys are scanned and the manifest
// is written back.
func (store *Store) LoadAllPartitions() (Finance, error) {
	finance := Finance{
		Payments:      make([]models.Payment, 0),
		Expenses:      make([]models.Expense, 0),
		AssetPayments: make([]models.AssetPayment, 0),
	}

	years, indexed, err := store.knownYears()
	if err != nil {
		return finance, err
	}
	if !indexed {
		if _, err := store.writeManifest(years); err != nil {
			return finance, err
		}
	}

	for _, year := range years {
		raw, _, err := store.adapter.Read(FinanceKey(year))
		if err != nil {
			return finance, err
		}
		partition, err := DecodeFinancePartition(raw)
		store.logDecodeFailure(FinanceKey(year), err)
		finance.Payments = append(finance.Payments, partition.Payments...)
		for _, expense := range partition.Expenses {
			if _, ok := models.ParseExpenseDate(expense.Date); !ok {
				expense.FiledYear = year
				store.logger.WithFields(logrus.Fields{
					"expense": expense.ID,
					"date":    expense.Date,
					"year":    year,
				}).Warn("expense date unreadable, kept in its partition")
			}
			finance.Expenses = append(finance.Expenses, expense)
		}

		raw, _, err = store.adapter.Read(AssetPaymentKey(year))
		if err != nil {
			return finance, err
		}
		assetPartition, err := DecodeAssetPaymentPartition(raw)
		store.logDecodeFailure(AssetPaymentKey(year), err)
		finance.AssetPayments = append(finance.AssetPayments, assetPartition.Payments...)
	}
	return finance, nil
}

// DeletePartition drops both keys of year and its manifest entry.
func (store *Store) DeletePartition(year int) error {
	if err := store.adapter.DeleteKey(FinanceKey(year)); err != nil {
		return err
	}
	if err := store.adapter.DeleteKey(AssetPaymentKey(year)); err != nil {
		return err
	}

	years, _, err := store.knownYears()
	if err != nil {
		return err
	}
	remaining := make([]int, 0, len(years))
	for _, known := range years {
		if known != year {
			remaining = append(remaining, known)
		}
	}
	_, err = store.writeManifest(remaining)
	return err
}

// PartitionYears lists the years currently indexed, ascending.
func (store *Store) PartitionYears() ([]int, error) {
	years, _, err := store.knownYears()
	return years, err
}

func (store *Store) recordYear(year int) (bool, error) {
	years, indexed, err := store.knownYears()
	if err != nil {
		return false, err
	}
	for _, known := range years {
		if known == year && indexed {
			return true, nil
		}
	}
	return store.writeManifest(append(years, year))
}

func (store *Store) writeManifest(years []int) (bool, error) {
	return store.saveEncoded(KeyFinanceManifest, func() (string, error) {
		return encodeManifest(years)
	})
}

// knownYears reports the indexed years and whether they came from a readable
// manifest.
func (store *Store) knownYears() ([]int, bool, error) {
	raw, found, err := store.adapter.Read(KeyFinanceManifest)
	if err != nil {
		return nil, false, err
	}
	if found {
		years, err := decodeManifest(raw)
		if err == nil {
			return years, true, nil
		}
		store.logDecodeFailure(KeyFinanceManifest, err)
	}

	years, err := store.scanPartitionYears()
	if err != nil {
		return nil, false, err
	}
	return years, false, nil
}

func (store *Store) scanPartitionYears() ([]int, error) {
	years := make([]int, 0)
	for _, prefix := range []string{PrefixFinance, PrefixAssetPayout} {
		keys, err := store.adapter.ScanKeys(prefix)
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			year, err := strconv.Atoi(strings.TrimPrefix(key, prefix))
			if err != nil {
				continue
			}
			years = append(years, year)
		}
	}
	return uniqueSortedYears(years), nil
}
