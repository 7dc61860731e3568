package repositories

import (
	"gorm.io/gorm"
)

// exists - есть ли строка под условием, кроме excludeID
func exists(q *gorm.DB, excludeID string) (bool, error) {
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// updateByID - частичное обновление; RowsAffected == 0 -> notFound
func updateByID(db *gorm.DB, model interface{}, id string, fields map[string]interface{}, notFound error) error {
	if len(fields) == 0 {
		var count int64
		if err := db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return notFound
		}
		return nil
	}

	result := db.Model(model).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return translate(result.Error, notFound)
	}
	if result.RowsAffected == 0 {
		return notFound
	}
	return nil
}

func deleteByID(db *gorm.DB, model interface{}, id string, notFound error) error {
	result := db.Where("id = ?", id).Delete(model)
	if result.Error != nil {
		return translate(result.Error, notFound)
	}
	if result.RowsAffected == 0 {
		return notFound
	}
	return nil
}
