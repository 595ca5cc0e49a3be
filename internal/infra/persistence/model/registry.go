package model

// All lists every persistence model in dependency order, for schema migration and code generation.
func All() []any {
	return []any{
		&UserModel{},
		&AuthenticationModel{},
		&RefreshTokenModel{},
		&OTPRequestModel{},
		&CategoryModel{},
		&SubCategoryModel{},
		&ProductModel{},
		&CartModel{},
		&CartItemModel{},
		&OrderModel{},
		&OrderItemModel{},
	}
}
