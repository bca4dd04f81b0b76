package model

// All lists every model managed by AutoMigrate, in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Package{},
		&Asset{},
		&AssetRequest{},
		&AssignedAsset{},
		&Payment{},
	}
}
