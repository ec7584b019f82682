package formatspec

func bound(v float64) *float64 { return &v }

// RedListCategories are the IUCN Red List category codes.
var RedListCategories = []string{"EX", "EW", "CR", "EN", "VU", "NT", "LC", "DD", "NE"}

// InvasionStatuses are the accepted InvasionStatus values.
var InvasionStatuses = []string{"native", "invasive", "non-invasive", "unknown"}

// NativeStatuses are the accepted NativeStatus values.
var NativeStatuses = []string{"native", "non-native", "unknown"}

// MetadataSpec defines metadata.txt.
var MetadataSpec = FormatSpec{
	Role:        RoleMetadata,
	Filename:    "metadata.txt",
	Format:      FormatTabular,
	Description: "Sampling sites: one row per sample with location and collection time",
	Required: []Column{
		{Name: "SampleID", Type: TypeString, Unique: true, Description: "Sample identifier referenced by the OTU table"},
		{Name: "Latitude", Type: TypeFloat, Range: &Range{Min: bound(-90), Max: bound(90)}, Description: "Decimal degrees"},
		{Name: "Longitude", Type: TypeFloat, Range: &Range{Min: bound(-180), Max: bound(180)}, Description: "Decimal degrees"},
		{Name: "SamplingTime", Type: TypeTimestamp, Description: "Collection date or timestamp"},
	},
	Optional: []Column{
		{Name: "Station", Type: TypeString, AllowEmpty: true, Description: "Sampling station name"},
		{Name: "Depth", Type: TypeFloat, AllowEmpty: true, Range: &Range{Min: bound(0)}, Description: "Sampling depth in metres"},
	},
	ExtraColumnNote: "it will be stored as environmental data",
}

// OTUTableSpec defines otu_table.txt. Rows are samples, columns are OTUs.
var OTUTableSpec = FormatSpec{
	Role:          RoleOTUTable,
	Filename:      "otu_table.txt",
	Format:        FormatTabular,
	Description:   "Abundance matrix: first column is the sample ID, every other column is an OTU ID holding read counts",
	PositionalKey: true,
	KeyAliases:    []string{"SampleID", ""},
	Required: []Column{
		{Name: "SampleID", Type: TypeString, Unique: true, Description: "Sample identifier (first column)"},
	},
	Dynamic: &Column{
		Name:        "<OTU ID>",
		Type:        TypeInteger,
		Range:       &Range{Min: bound(0)},
		Description: "Read count of the OTU in the sample",
	},
}

// TaxTableSpec defines tax_table.txt.
var TaxTableSpec = FormatSpec{
	Role:        RoleTaxTable,
	Filename:    "tax_table.txt",
	Format:      FormatTabular,
	Description: "Taxonomic assignment per OTU",
	Required: []Column{
		{Name: "OTU", Type: TypeString, Unique: true, Description: "OTU identifier"},
		{Name: "Kingdom", Type: TypeString, AllowEmpty: true},
		{Name: "Phylum", Type: TypeString, AllowEmpty: true},
		{Name: "Class", Type: TypeString, AllowEmpty: true},
		{Name: "Order", Type: TypeString, AllowEmpty: true},
		{Name: "Family", Type: TypeString, AllowEmpty: true},
		{Name: "Genus", Type: TypeString, AllowEmpty: true},
		{Name: "Species", Type: TypeString, AllowEmpty: true, Description: "Species name referenced by taxa_metadata.txt"},
	},
}

// TaxaMetadataSpec defines taxa_metadata.txt.
var TaxaMetadataSpec = FormatSpec{
	Role:        RoleTaxaMetadata,
	Filename:    "taxa_metadata.txt",
	Format:      FormatTabular,
	Description: "Conservation and invasion status per species",
	Required: []Column{
		{Name: "Species", Type: TypeString, Unique: true, Description: "Species name"},
		{Name: "RedListStatus", Type: TypeString, Enum: RedListCategories, Description: "IUCN Red List category"},
		{Name: "InvasionStatus", Type: TypeString, Enum: InvasionStatuses, Description: "Invasion status"},
	},
	Optional: []Column{
		{Name: "NativeStatus", Type: TypeString, AllowEmpty: true, Enum: NativeStatuses},
		{Name: "CommonName", Type: TypeString, AllowEmpty: true},
	},
}

// SequencesSpec defines sequences.fasta.
var SequencesSpec = FormatSpec{
	Role:        RoleSequences,
	Filename:    "sequences.fasta",
	Format:      FormatFASTA,
	Description: "Reference sequence per OTU; the first header token is the OTU ID and must be unique",
}
