package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/brandlens/brandlens/internal/model"
)

// File names served by the download endpoint.
const (
	BrandFileName    = "brand_related.csv"
	NonBrandFileName = "non_brand.csv"
)

var csvHeader = []string{
	"video_id",
	"author_unique_id",
	"author_link",
	"signature",
	"is_brand",
	"is_matrix_account",
	"is_ugc_creator",
	"brand_name",
	"analysis_details",
	"author_followers_count",
	"author_followings_count",
	"video_count",
	"author_avatar",
	"create_times",
}

// Partition splits results into brand-related and non-brand groups,
// preserving input order within each group.
func Partition(results []model.ClassificationResult) (brand, nonBrand []model.ClassificationResult) {
	for _, r := range results {
		if r.BrandRelated() {
			brand = append(brand, r)
		} else {
			nonBrand = append(nonBrand, r)
		}
	}
	return brand, nonBrand
}

// WriteFiles writes both partition CSVs under dir, creating it if needed.
func WriteFiles(dir string, results []model.ClassificationResult) (brandPath, nonBrandPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", eris.Wrapf(err, "report: create dir %s", dir)
	}

	brand, nonBrand := Partition(results)

	brandPath = filepath.Join(dir, BrandFileName)
	if err := WriteCSV(brandPath, brand); err != nil {
		return "", "", err
	}

	nonBrandPath = filepath.Join(dir, NonBrandFileName)
	if err := WriteCSV(nonBrandPath, nonBrand); err != nil {
		return "", "", err
	}
	return brandPath, nonBrandPath, nil
}

// WriteCSV writes results to path with the standard column layout.
func WriteCSV(path string, results []model.ClassificationResult) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "report: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return eris.Wrap(err, "report: write header")
	}

	for _, r := range results {
		row := []string{
			r.Creator.VideoID,
			r.Creator.UniqueID,
			r.Creator.ProfileLink(),
			r.Creator.Signature,
			strconv.FormatBool(r.IsOfficialBrand),
			strconv.FormatBool(r.IsMatrixAccount),
			strconv.FormatBool(r.IsUGCCreator),
			r.BrandName,
			r.Rationale,
			strconv.Itoa(r.Creator.FollowerCount),
			strconv.Itoa(r.Creator.FollowingCount),
			strconv.Itoa(r.Creator.VideoCount),
			r.Creator.AvatarURL,
			r.Creator.CreatedAt,
		}
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "report: write row")
		}
	}

	w.Flush()
	return eris.Wrapf(w.Error(), "report: flush %s", path)
}
