package repository

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrShopNotFound       = errors.New("shop not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrSaleNotFound       = errors.New("sale not found")
	ErrRuleNotFound       = errors.New("commission rule not found")
	ErrCommissionNotFound = errors.New("commission not found")
)
