// Package model holds the GORM persistence models. They never leave the infra layer.
package model

// All lists every model in foreign-key dependency order for schema migration.
func All() []any {
	return []any{
		&UserModel{},
		&ProfileModel{},
		&AuthenticationModel{},
		&RefreshTokenModel{},
		&CategoryModel{},
		&ProductModel{},
		&CartItemModel{},
		&OrderModel{},
		&OrderItemModel{},
		&ContactMessageModel{},
	}
}
