package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysEventLog{},
	&User{},
	// Shop
	&Product{},
	&CartItem{},
	&Sale{},
	&Order{},
	&OrderItem{},
	&Transaction{},
	&Notification{},
}
