package features

// Declared input schema for the merged client table. The persisted encoder
// and scaler artifacts were fitted against exactly these columns; changing
// any list here requires refitting the artifacts.

// ClientIDColumn names the unique client identifier column present in every
// source relation.
const ClientIDColumn = "Client"

// CategoricalColumn is the single demographic categorical field.
const CategoricalColumn = "Sex"

// UnknownCategory is the sentinel the ingestion step substitutes for a
// missing categorical value. It is part of the fitted encoder vocabulary.
const UnknownCategory = "Unknown"

// CountColumns returns the declared non-negative product-count fields, in
// the order the scaler was fitted on.
func CountColumns() []string {
	return []string{
		"Count_CA",
		"Count_SA",
		"Count_MF",
		"Count_OVD",
		"Count_CC",
		"Count_CL",
	}
}

// AmountColumns returns the declared non-negative balance and cash-flow
// fields. Every one of them gets a log1p-transformed companion column.
func AmountColumns() []string {
	return []string{
		"ActBal_CA",
		"ActBal_SA",
		"ActBal_MF",
		"ActBal_OVD",
		"ActBal_CC",
		"ActBal_CL",
		"VolumeCred",
		"VolumeCred_CA",
		"TransactionsCred",
		"TransactionsCred_CA",
		"VolumeDeb",
		"VolumeDeb_CA",
		"VolumeDebCash_Card",
		"VolumeDebCashless_Card",
		"VolumeDeb_PaymentOrder",
		"TransactionsDeb",
		"TransactionsDeb_CA",
		"TransactionsDebCash_Card",
		"TransactionsDebCashless_Card",
		"TransactionsDeb_PaymentOrder",
	}
}

// LogColumn returns the derived column name for an amount field.
func LogColumn(amount string) string {
	return "log_" + amount
}
