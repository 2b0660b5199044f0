package database

import (
	"fmt"
	"regexp"
	"strconv"

	"terracred/models"

	"gorm.io/gorm"
)

// Sequence names
const (
	SeqProperty    = "property"
	SeqUser        = "user"
	SeqTransaction = "transaction"
)

type sequenceSpec struct {
	name   string
	model  any
	column string
	prefix string
	width  int
}

var sequences = map[string]sequenceSpec{
	SeqProperty:    {SeqProperty, &models.Property{}, "property_id", "PROP", 3},
	SeqUser:        {SeqUser, &models.User{}, "user_id", "USER", 3},
	SeqTransaction: {SeqTransaction, &models.Transaction{}, "tx_id", "TX", 6},
}

// NextID increments the named sequence inside tx and returns the formatted id.
// Callers must run it in the same transaction as the insert that uses the id.
func NextID(tx *gorm.DB, name string) (string, error) {
	spec, ok := sequences[name]
	if !ok {
		return "", fmt.Errorf("unknown sequence %q", name)
	}

	res := tx.Model(&models.Sequence{}).
		Where("name = ?", name).
		UpdateColumn("value", gorm.Expr("value + 1"))
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		if err := tx.Create(&models.Sequence{Name: name, Value: 1}).Error; err != nil {
			return "", err
		}
	}

	var seq models.Sequence
	if err := tx.Where("name = ?", name).First(&seq).Error; err != nil {
		return "", err
	}
	return FormatID(spec.prefix, spec.width, seq.Value), nil
}

// FormatID renders PREFIX followed by n zero padded to width digits
func FormatID(prefix string, width int, n int64) string {
	return fmt.Sprintf("%s%0*d", prefix, width, n)
}

// seedSequences makes sure every sequence starts above the largest id already stored,
// so databases created by earlier deployments keep producing unique ids.
func seedSequences(db *gorm.DB) error {
	for _, spec := range sequences {
		var ids []string
		if err := db.Model(spec.model).Pluck(spec.column, &ids).Error; err != nil {
			return fmt.Errorf("seed sequence %s: %w", spec.name, err)
		}
		highest := maxSuffix(spec.prefix, ids)

		var seq models.Sequence
		err := db.Where(models.Sequence{Name: spec.name}).
			Attrs(models.Sequence{Value: highest}).
			FirstOrCreate(&seq).Error
		if err != nil {
			return fmt.Errorf("seed sequence %s: %w", spec.name, err)
		}
		if seq.Value < highest {
			if err := db.Model(&seq).Update("value", highest).Error; err != nil {
				return fmt.Errorf("seed sequence %s: %w", spec.name, err)
			}
		}
	}
	return nil
}

func maxSuffix(prefix string, ids []string) int64 {
	re := regexp.MustCompile("^" + regexp.QuoteMeta(prefix) + `(\d+)$`)
	var highest int64
	for _, id := range ids {
		m := re.FindStringSubmatch(id)
		if m == nil {
			continue
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err == nil && n > highest {
			highest = n
		}
	}
	return highest
}
