package repository

// TxRepositories agrupa los repositorios atados a una misma transacción.
// Lo construye el TxRunner de infraestructura; los casos de uso solo lo consumen.
type TxRepositories struct {
	Products       ProductRepository
	Movements      InventoryMovementRepository
	Sales          SaleRepository
	PurchaseOrders PurchaseOrderRepository
	Customers      CustomerRepository
	Suppliers      SupplierRepository
}
