package features

// SchemaVersion identifies the training contract of the deployed booster.
// Bump this together with a new model artifact, never independently.
const SchemaVersion = "v2"

// TrainingColumns is the canonical column order the booster was trained with.
// SAMAKAN dengan kolom saat training! Order matters: the booster has no schema
// validation, so a reordered vector silently produces wrong predictions.
var TrainingColumns = []string{
	"avg_temp", "std_temp", "max_temp", "min_temp",
	"avg_humid", "std_humid", "max_humid", "min_humid",
	"durasi_observasi",
	// One-hot item
	"Nama_Item_Apel", "Nama_Item_Pisang", "Nama_Item_Mangga", "Nama_Item_Jeruk",
	"Nama_Item_Anggur", "Nama_Item_Stroberi", "Nama_Item_Tomat", "Nama_Item_Alpukat",
	// One-hot initial condition
	"Kondisi_Awal_Matang", "Kondisi_Awal_Mentah", "Kondisi_Awal_Segar", "Kondisi_Awal_Setengah_Matang",
	// Storage mode flag
	"Mode_Simpan_Kulkas",
}

// itemAliases maps normalized (lower-cased, trimmed) item names to their
// one-hot column. Unknown names leave the whole block at zero.
var itemAliases = map[string]string{
	"apel":       "Nama_Item_Apel",
	"apple":      "Nama_Item_Apel",
	"pisang":     "Nama_Item_Pisang",
	"banana":     "Nama_Item_Pisang",
	"mangga":     "Nama_Item_Mangga",
	"mango":      "Nama_Item_Mangga",
	"jeruk":      "Nama_Item_Jeruk",
	"orange":     "Nama_Item_Jeruk",
	"anggur":     "Nama_Item_Anggur",
	"grape":      "Nama_Item_Anggur",
	"stroberi":   "Nama_Item_Stroberi",
	"strawberry": "Nama_Item_Stroberi",
	"tomat":      "Nama_Item_Tomat",
	"tomato":     "Nama_Item_Tomat",
	"alpukat":    "Nama_Item_Alpukat",
	"avocado":    "Nama_Item_Alpukat",
	"avokad":     "Nama_Item_Alpukat",
}

var conditionAliases = map[string]string{
	"matang":          "Kondisi_Awal_Matang",
	"ripe":            "Kondisi_Awal_Matang",
	"mentah":          "Kondisi_Awal_Mentah",
	"unripe":          "Kondisi_Awal_Mentah",
	"segar":           "Kondisi_Awal_Segar",
	"fresh":           "Kondisi_Awal_Segar",
	"setengah matang": "Kondisi_Awal_Setengah_Matang",
	"setengah_matang": "Kondisi_Awal_Setengah_Matang",
	"half ripe":       "Kondisi_Awal_Setengah_Matang",
}
