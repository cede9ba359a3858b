package migrate

import (
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	money   = map[string]string{"postgres": "numeric(12,2)"}
	percent = map[string]string{"postgres": "numeric(5,2)"}
	day     = map[string]string{"postgres": "date"}
)

var (
	// VehicleTypesColumns holds the columns for the "vehicle_types" table.
	VehicleTypesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "name", Type: field.TypeString, Unique: true},
		{Name: "passenger_capacity", Type: field.TypeInt, Default: 0},
		{Name: "luggage_capacity", Type: field.TypeInt, Default: 0},
		{Name: "is_active", Type: field.TypeBool, Default: true},
	}
	// VehicleTypesTable holds the schema information for the "vehicle_types" table.
	VehicleTypesTable = &schema.Table{
		Name:       "vehicle_types",
		Columns:    VehicleTypesColumns,
		PrimaryKey: []*schema.Column{VehicleTypesColumns[0]},
	}

	// PricingRulesColumns holds the columns for the "pricing_rules" table.
	PricingRulesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "origin", Type: field.TypeString},
		{Name: "destination", Type: field.TypeString},
		{Name: "vehicle_type_id", Type: field.TypeUUID},
		{Name: "base_price", Type: field.TypeFloat64, SchemaType: money},
		{Name: "no_discount_allowed", Type: field.TypeBool, Default: false},
		{Name: "priority", Type: field.TypeInt, Default: 0},
		{Name: "is_active", Type: field.TypeBool, Default: true},
	}
	// PricingRulesTable holds the schema information for the "pricing_rules" table.
	PricingRulesTable = &schema.Table{
		Name:       "pricing_rules",
		Columns:    PricingRulesColumns,
		PrimaryKey: []*schema.Column{PricingRulesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "pricing_rules_vehicle_types_rules",
				Columns:    []*schema.Column{PricingRulesColumns[3]},
				RefColumns: []*schema.Column{VehicleTypesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "pricingrule_origin_destination_vehicle_type_id",
				Unique:  false,
				Columns: []*schema.Column{PricingRulesColumns[1], PricingRulesColumns[2], PricingRulesColumns[3]},
			},
		},
	}

	// GlobalDiscountSettingsColumns holds the columns for the "global_discount_settings" table.
	GlobalDiscountSettingsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "discount_percentage", Type: field.TypeFloat64, SchemaType: percent},
		{Name: "is_active", Type: field.TypeBool, Default: false},
		{Name: "start_date", Type: field.TypeTime, Nullable: true},
		{Name: "end_date", Type: field.TypeTime, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
	}
	// GlobalDiscountSettingsTable holds the schema information for the "global_discount_settings" table.
	GlobalDiscountSettingsTable = &schema.Table{
		Name:       "global_discount_settings",
		Columns:    GlobalDiscountSettingsColumns,
		PrimaryKey: []*schema.Column{GlobalDiscountSettingsColumns[0]},
	}

	// PartnersColumns holds the columns for the "partners" table.
	PartnersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "name", Type: field.TypeString},
		{Name: "email", Type: field.TypeString, Unique: true},
		{Name: "commission_rate", Type: field.TypeFloat64, SchemaType: percent, Default: 0},
		{Name: "total_earnings", Type: field.TypeFloat64, SchemaType: money, Default: 0},
		{Name: "pending_payout", Type: field.TypeFloat64, SchemaType: money, Default: 0},
		{Name: "total_bookings", Type: field.TypeInt, Default: 0},
		{Name: "created_at", Type: field.TypeTime},
	}
	// PartnersTable holds the schema information for the "partners" table.
	PartnersTable = &schema.Table{
		Name:       "partners",
		Columns:    PartnersColumns,
		PrimaryKey: []*schema.Column{PartnersColumns[0]},
	}

	// CustomersColumns holds the columns for the "customers" table.
	CustomersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "email", Type: field.TypeString, Unique: true},
		{Name: "name", Type: field.TypeString, Default: ""},
		{Name: "phone", Type: field.TypeString, Default: ""},
		{Name: "total_bookings", Type: field.TypeInt, Default: 0},
		{Name: "completed_trips", Type: field.TypeInt, Default: 0},
		{Name: "total_spent", Type: field.TypeFloat64, SchemaType: money, Default: 0},
		{Name: "no_show_count", Type: field.TypeInt, Default: 0},
		{Name: "last_booking_at", Type: field.TypeTime, Nullable: true},
		{Name: "last_trip_at", Type: field.TypeTime, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
	}
	// CustomersTable holds the schema information for the "customers" table.
	CustomersTable = &schema.Table{
		Name:       "customers",
		Columns:    CustomersColumns,
		PrimaryKey: []*schema.Column{CustomersColumns[0]},
	}

	// BookingsColumns holds the columns for the "bookings" table.
	BookingsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "reference", Type: field.TypeString, Unique: true},
		{Name: "customer_id", Type: field.TypeUUID, Nullable: true},
		{Name: "partner_id", Type: field.TypeUUID, Nullable: true},
		{Name: "customer_email", Type: field.TypeString},
		{Name: "customer_name", Type: field.TypeString, Default: ""},
		{Name: "customer_phone", Type: field.TypeString, Default: ""},
		{Name: "pickup_location", Type: field.TypeString},
		{Name: "dropoff_location", Type: field.TypeString},
		{Name: "vehicle_type", Type: field.TypeString},
		{Name: "trip_type", Type: field.TypeString, Default: "one-way"},
		{Name: "passengers", Type: field.TypeInt, Default: 1},
		{Name: "luggage", Type: field.TypeInt, Default: 0},
		{Name: "price", Type: field.TypeFloat64, SchemaType: money},
		{Name: "status", Type: field.TypeString, Default: "pending"},
		{Name: "payment_status", Type: field.TypeString, Default: "unpaid"},
		{Name: "workflow_status", Type: field.TypeString, Default: "pending"},
		{Name: "pickup_datetime", Type: field.TypeTime},
		{Name: "payment_method", Type: field.TypeString, Nullable: true},
		{Name: "stripe_payment_id", Type: field.TypeString, Nullable: true},
		{Name: "quote_number", Type: field.TypeString, Nullable: true},
		{Name: "completed_at", Type: field.TypeTime, Nullable: true},
		{Name: "completion_email_sent", Type: field.TypeBool, Default: false},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// BookingsTable holds the schema information for the "bookings" table.
	BookingsTable = &schema.Table{
		Name:       "bookings",
		Columns:    BookingsColumns,
		PrimaryKey: []*schema.Column{BookingsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "bookings_customers_bookings",
				Columns:    []*schema.Column{BookingsColumns[2]},
				RefColumns: []*schema.Column{CustomersColumns[0]},
				OnDelete:   schema.SetNull,
			},
			{
				Symbol:     "bookings_partners_bookings",
				Columns:    []*schema.Column{BookingsColumns[3]},
				RefColumns: []*schema.Column{PartnersColumns[0]},
				OnDelete:   schema.SetNull,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "booking_workflow_status_completed_at",
				Columns: []*schema.Column{BookingsColumns[16], BookingsColumns[21]},
			},
			{
				Name:    "booking_workflow_status_pickup_datetime",
				Columns: []*schema.Column{BookingsColumns[16], BookingsColumns[17]},
			},
		},
	}

	// VehiclesColumns holds the columns for the "vehicles" table.
	VehiclesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "vehicle_type_id", Type: field.TypeUUID, Nullable: true},
		{Name: "plate", Type: field.TypeString, Unique: true},
		{Name: "status", Type: field.TypeString, Default: "available"},
		{Name: "mileage", Type: field.TypeInt, Default: 0},
	}
	// VehiclesTable holds the schema information for the "vehicles" table.
	VehiclesTable = &schema.Table{
		Name:       "vehicles",
		Columns:    VehiclesColumns,
		PrimaryKey: []*schema.Column{VehiclesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "vehicles_vehicle_types_vehicles",
				Columns:    []*schema.Column{VehiclesColumns[1]},
				RefColumns: []*schema.Column{VehicleTypesColumns[0]},
				OnDelete:   schema.SetNull,
			},
		},
	}

	// TripAssignmentsColumns holds the columns for the "trip_assignments" table.
	TripAssignmentsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "booking_id", Type: field.TypeUUID},
		{Name: "vehicle_id", Type: field.TypeUUID, Nullable: true},
		{Name: "driver_name", Type: field.TypeString, Nullable: true},
		{Name: "status", Type: field.TypeString, Default: "pending"},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// TripAssignmentsTable holds the schema information for the "trip_assignments" table.
	TripAssignmentsTable = &schema.Table{
		Name:       "trip_assignments",
		Columns:    TripAssignmentsColumns,
		PrimaryKey: []*schema.Column{TripAssignmentsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "trip_assignments_bookings_assignment",
				Columns:    []*schema.Column{TripAssignmentsColumns[1]},
				RefColumns: []*schema.Column{BookingsColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "trip_assignments_vehicles_assignments",
				Columns:    []*schema.Column{TripAssignmentsColumns[2]},
				RefColumns: []*schema.Column{VehiclesColumns[0]},
				OnDelete:   schema.SetNull,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "tripassignment_booking_id",
				Unique:  true,
				Columns: []*schema.Column{TripAssignmentsColumns[1]},
			},
		},
	}

	// PaymentTransactionsColumns holds the columns for the "payment_transactions" table.
	PaymentTransactionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "booking_id", Type: field.TypeUUID},
		{Name: "customer_id", Type: field.TypeUUID, Nullable: true},
		{Name: "transaction_type", Type: field.TypeString},
		{Name: "amount", Type: field.TypeFloat64, SchemaType: money},
		{Name: "payment_method", Type: field.TypeString, Default: ""},
		{Name: "external_id", Type: field.TypeString, Nullable: true},
		{Name: "status", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeTime},
	}
	// PaymentTransactionsTable holds the schema information for the "payment_transactions" table.
	PaymentTransactionsTable = &schema.Table{
		Name:       "payment_transactions",
		Columns:    PaymentTransactionsColumns,
		PrimaryKey: []*schema.Column{PaymentTransactionsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "payment_transactions_bookings_payments",
				Columns:    []*schema.Column{PaymentTransactionsColumns[1]},
				RefColumns: []*schema.Column{BookingsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// PartnerPayoutsColumns holds the columns for the "partner_payouts" table.
	PartnerPayoutsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "partner_id", Type: field.TypeUUID},
		{Name: "amount", Type: field.TypeFloat64, SchemaType: money},
		{Name: "status", Type: field.TypeString, Default: "pending"},
		{Name: "included_transactions", Type: field.TypeJSON},
		{Name: "created_at", Type: field.TypeTime},
	}
	// PartnerPayoutsTable holds the schema information for the "partner_payouts" table.
	PartnerPayoutsTable = &schema.Table{
		Name:       "partner_payouts",
		Columns:    PartnerPayoutsColumns,
		PrimaryKey: []*schema.Column{PartnerPayoutsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "partner_payouts_partners_payouts",
				Columns:    []*schema.Column{PartnerPayoutsColumns[1]},
				RefColumns: []*schema.Column{PartnersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// PartnerTransactionsColumns holds the columns for the "partner_transactions" table.
	PartnerTransactionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "partner_id", Type: field.TypeUUID},
		{Name: "booking_id", Type: field.TypeUUID},
		{Name: "transaction_type", Type: field.TypeString},
		{Name: "amount", Type: field.TypeFloat64, SchemaType: money},
		{Name: "platform_fee", Type: field.TypeFloat64, SchemaType: money, Default: 0},
		{Name: "net_amount", Type: field.TypeFloat64, SchemaType: money, Default: 0},
		{Name: "status", Type: field.TypeString},
		{Name: "payout_id", Type: field.TypeUUID, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
	}
	// PartnerTransactionsTable holds the schema information for the "partner_transactions" table.
	PartnerTransactionsTable = &schema.Table{
		Name:       "partner_transactions",
		Columns:    PartnerTransactionsColumns,
		PrimaryKey: []*schema.Column{PartnerTransactionsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "partner_transactions_partners_transactions",
				Columns:    []*schema.Column{PartnerTransactionsColumns[1]},
				RefColumns: []*schema.Column{PartnersColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "partner_transactions_bookings_partner_transactions",
				Columns:    []*schema.Column{PartnerTransactionsColumns[2]},
				RefColumns: []*schema.Column{BookingsColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "partner_transactions_partner_payouts_transactions",
				Columns:    []*schema.Column{PartnerTransactionsColumns[8]},
				RefColumns: []*schema.Column{PartnerPayoutsColumns[0]},
				OnDelete:   schema.SetNull,
			},
		},
		Indexes: []*schema.Index{
			{
				// One approved commission per booking, whatever the caller does.
				Name:       "partnertransaction_booking_id_approved",
				Unique:     true,
				Columns:    []*schema.Column{PartnerTransactionsColumns[2]},
				Annotation: &entsql.IndexAnnotation{Where: "transaction_type = 'commission_approved'"},
			},
			{
				Name:    "partnertransaction_booking_id_transaction_type",
				Columns: []*schema.Column{PartnerTransactionsColumns[2], PartnerTransactionsColumns[3]},
			},
			{
				Name:    "partnertransaction_partner_id_created_at",
				Columns: []*schema.Column{PartnerTransactionsColumns[1], PartnerTransactionsColumns[9]},
			},
		},
	}

	// PartnerDailyStatsColumns holds the columns for the "partner_daily_stats" table.
	PartnerDailyStatsColumns = []*schema.Column{
		{Name: "partner_id", Type: field.TypeUUID},
		{Name: "date", Type: field.TypeTime, SchemaType: day},
		{Name: "bookings_count", Type: field.TypeInt, Default: 0},
		{Name: "revenue", Type: field.TypeFloat64, SchemaType: money, Default: 0},
		{Name: "commission_earned", Type: field.TypeFloat64, SchemaType: money, Default: 0},
		{Name: "platform_fees", Type: field.TypeFloat64, SchemaType: money, Default: 0},
	}
	// PartnerDailyStatsTable holds the schema information for the "partner_daily_stats" table.
	PartnerDailyStatsTable = &schema.Table{
		Name:       "partner_daily_stats",
		Columns:    PartnerDailyStatsColumns,
		PrimaryKey: []*schema.Column{PartnerDailyStatsColumns[0], PartnerDailyStatsColumns[1]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "partner_daily_stats_partners_daily_stats",
				Columns:    []*schema.Column{PartnerDailyStatsColumns[0]},
				RefColumns: []*schema.Column{PartnersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// AutomationLogsColumns holds the columns for the "automation_logs" table.
	AutomationLogsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "job_name", Type: field.TypeString},
		{Name: "status", Type: field.TypeString},
		{Name: "processed", Type: field.TypeInt, Default: 0},
		{Name: "failed", Type: field.TypeInt, Default: 0},
		{Name: "details", Type: field.TypeJSON, Nullable: true},
		{Name: "error", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "started_at", Type: field.TypeTime},
		{Name: "finished_at", Type: field.TypeTime},
	}
	// AutomationLogsTable holds the schema information for the "automation_logs" table.
	AutomationLogsTable = &schema.Table{
		Name:       "automation_logs",
		Columns:    AutomationLogsColumns,
		PrimaryKey: []*schema.Column{AutomationLogsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "automationlog_job_name_started_at",
				Columns: []*schema.Column{AutomationLogsColumns[1], AutomationLogsColumns[7]},
			},
		},
	}

	// InvoicesColumns holds the columns for the "invoices" table.
	InvoicesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "booking_id", Type: field.TypeUUID, Unique: true},
		{Name: "invoice_number", Type: field.TypeString, Unique: true},
		{Name: "subtotal", Type: field.TypeFloat64, SchemaType: money},
		{Name: "tax", Type: field.TypeFloat64, SchemaType: money},
		{Name: "total", Type: field.TypeFloat64, SchemaType: money},
		{Name: "status", Type: field.TypeString, Default: "issued"},
		{Name: "document_key", Type: field.TypeString, Nullable: true},
		{Name: "issued_at", Type: field.TypeTime},
	}
	// InvoicesTable holds the schema information for the "invoices" table.
	InvoicesTable = &schema.Table{
		Name:       "invoices",
		Columns:    InvoicesColumns,
		PrimaryKey: []*schema.Column{InvoicesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "invoices_bookings_invoice",
				Columns:    []*schema.Column{InvoicesColumns[1]},
				RefColumns: []*schema.Column{BookingsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// ReviewRequestsColumns holds the columns for the "review_requests" table.
	ReviewRequestsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "booking_id", Type: field.TypeUUID},
		{Name: "customer_id", Type: field.TypeUUID, Nullable: true},
		{Name: "token", Type: field.TypeString, Unique: true},
		{Name: "status", Type: field.TypeString, Default: "pending"},
		{Name: "expires_at", Type: field.TypeTime},
		{Name: "created_at", Type: field.TypeTime},
	}
	// ReviewRequestsTable holds the schema information for the "review_requests" table.
	ReviewRequestsTable = &schema.Table{
		Name:       "review_requests",
		Columns:    ReviewRequestsColumns,
		PrimaryKey: []*schema.Column{ReviewRequestsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "review_requests_bookings_reviews",
				Columns:    []*schema.Column{ReviewRequestsColumns[1]},
				RefColumns: []*schema.Column{BookingsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// AdminNotificationsColumns holds the columns for the "admin_notifications" table.
	AdminNotificationsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "type", Type: field.TypeString},
		{Name: "title", Type: field.TypeString},
		{Name: "message", Type: field.TypeString, Size: 2147483647},
		{Name: "booking_id", Type: field.TypeUUID, Nullable: true},
		{Name: "priority", Type: field.TypeString, Default: "normal"},
		{Name: "is_read", Type: field.TypeBool, Default: false},
		{Name: "created_at", Type: field.TypeTime},
	}
	// AdminNotificationsTable holds the schema information for the "admin_notifications" table.
	AdminNotificationsTable = &schema.Table{
		Name:       "admin_notifications",
		Columns:    AdminNotificationsColumns,
		PrimaryKey: []*schema.Column{AdminNotificationsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "admin_notifications_bookings_notifications",
				Columns:    []*schema.Column{AdminNotificationsColumns[4]},
				RefColumns: []*schema.Column{BookingsColumns[0]},
				OnDelete:   schema.SetNull,
			},
		},
	}

	// CancellationRequestsColumns holds the columns for the "cancellation_requests" table.
	CancellationRequestsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "booking_id", Type: field.TypeUUID},
		{Name: "token", Type: field.TypeString, Unique: true},
		{Name: "reason", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "status", Type: field.TypeString, Default: "pending"},
		{Name: "submitted_at", Type: field.TypeTime, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
	}
	// CancellationRequestsTable holds the schema information for the "cancellation_requests" table.
	CancellationRequestsTable = &schema.Table{
		Name:       "cancellation_requests",
		Columns:    CancellationRequestsColumns,
		PrimaryKey: []*schema.Column{CancellationRequestsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "cancellation_requests_bookings_cancellations",
				Columns:    []*schema.Column{CancellationRequestsColumns[1]},
				RefColumns: []*schema.Column{BookingsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		VehicleTypesTable,
		PricingRulesTable,
		GlobalDiscountSettingsTable,
		PartnersTable,
		CustomersTable,
		BookingsTable,
		VehiclesTable,
		TripAssignmentsTable,
		PaymentTransactionsTable,
		PartnerPayoutsTable,
		PartnerTransactionsTable,
		PartnerDailyStatsTable,
		AutomationLogsTable,
		InvoicesTable,
		ReviewRequestsTable,
		AdminNotificationsTable,
		CancellationRequestsTable,
	}
)

func init() {
	PricingRulesTable.ForeignKeys[0].RefTable = VehicleTypesTable
	BookingsTable.ForeignKeys[0].RefTable = CustomersTable
	BookingsTable.ForeignKeys[1].RefTable = PartnersTable
	VehiclesTable.ForeignKeys[0].RefTable = VehicleTypesTable
	TripAssignmentsTable.ForeignKeys[0].RefTable = BookingsTable
	TripAssignmentsTable.ForeignKeys[1].RefTable = VehiclesTable
	PaymentTransactionsTable.ForeignKeys[0].RefTable = BookingsTable
	PartnerPayoutsTable.ForeignKeys[0].RefTable = PartnersTable
	PartnerTransactionsTable.ForeignKeys[0].RefTable = PartnersTable
	PartnerTransactionsTable.ForeignKeys[1].RefTable = BookingsTable
	PartnerTransactionsTable.ForeignKeys[2].RefTable = PartnerPayoutsTable
	PartnerDailyStatsTable.ForeignKeys[0].RefTable = PartnersTable
	InvoicesTable.ForeignKeys[0].RefTable = BookingsTable
	ReviewRequestsTable.ForeignKeys[0].RefTable = BookingsTable
	AdminNotificationsTable.ForeignKeys[0].RefTable = BookingsTable
	CancellationRequestsTable.ForeignKeys[0].RefTable = BookingsTable
}
