/*
Package console 交互式命令行前端

从 io.Reader 读取菜单选项与参数，结果写入 io.Writer。
ID 与价格格式在这里校验，校验失败不会调用应用服务。
*/
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"storefront/application/notify"
	orderapp "storefront/application/order"
	productapp "storefront/application/product"
	"storefront/domain/order"
	"storefront/domain/product"
	"storefront/domain/shared"

	"github.com/google/uuid"
)

// Choice 菜单项
type Choice int

const (
	GetAllProducts Choice = iota + 1
	GetProductByID
	CreateProduct
	UpdateProduct
	DeleteProduct
	GetAllOrders
	GetOrderByID
	CreateOrder
	UpdateOrder
	DeleteOrder
	AddProductsToOrder
	Exit
)

var choiceNames = map[Choice]string{
	GetAllProducts:     "GetAllProducts",
	GetProductByID:     "GetProductById",
	CreateProduct:      "CreateProduct",
	UpdateProduct:      "UpdateProduct",
	DeleteProduct:      "DeleteProduct",
	GetAllOrders:       "GetAllOrders",
	GetOrderByID:       "GetOrderById",
	CreateOrder:        "CreateOrder",
	UpdateOrder:        "UpdateOrder",
	DeleteOrder:        "DeleteOrder",
	AddProductsToOrder: "AddProductsToOrder",
	Exit:               "Exit",
}

func (c Choice) String() string {
	if name, ok := choiceNames[c]; ok {
		return name
	}
	return "Choice(" + strconv.Itoa(int(c)) + ")"
}

// Invoker 把菜单选项分发到商品/订单应用服务
type Invoker struct {
	products *productapp.ApplicationService
	orders   *orderapp.ApplicationService
	notifier *notify.Notifier
	in       *bufio.Scanner
	out      io.Writer
	actions  map[Choice]func(ctx context.Context)
}

// NewInvoker attaches observer to notifier for the lifetime of the invoker
func NewInvoker(
	products *productapp.ApplicationService,
	orders *orderapp.ApplicationService,
	notifier *notify.Notifier,
	observer notify.Observer,
	in io.Reader,
	out io.Writer,
) *Invoker {
	inv := &Invoker{
		products: products,
		orders:   orders,
		notifier: notifier,
		in:       bufio.NewScanner(in),
		out:      out,
	}
	if observer != nil {
		notifier.Attach(observer)
	}

	inv.actions = map[Choice]func(ctx context.Context){
		GetAllProducts:     inv.getAllProducts,
		GetProductByID:     inv.getProductByID,
		CreateProduct:      inv.createProduct,
		UpdateProduct:      inv.updateProduct,
		DeleteProduct:      inv.deleteProduct,
		GetAllOrders:       inv.getAllOrders,
		GetOrderByID:       inv.getOrderByID,
		CreateOrder:        inv.createOrder,
		UpdateOrder:        inv.updateOrder,
		DeleteOrder:        inv.deleteOrder,
		AddProductsToOrder: inv.addProductsToOrder,
	}
	return inv
}

// Run 循环处理菜单，直到选择 Exit、输入结束或 ctx 取消
func (inv *Invoker) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		inv.println("Please select an action:")
		inv.showMenu()

		line, ok := inv.readLine()
		if !ok {
			return inv.in.Err()
		}

		n, err := strconv.Atoi(line)
		if err != nil {
			inv.println("Invalid input. Please enter a number corresponding to the action.")
		} else if Choice(n) == Exit {
			return nil
		} else if action, found := inv.actions[Choice(n)]; found {
			action(ctx)
		} else {
			inv.println("Invalid choice. Please try again.")
		}

		inv.println("Press Enter to continue...")
		if _, ok := inv.readLine(); !ok {
			return inv.in.Err()
		}
	}
}

func (inv *Invoker) showMenu() {
	for c := GetAllProducts; c <= Exit; c++ {
		inv.printf("%d. %s\n", int(c), c)
	}
}

func (inv *Invoker) readLine() (string, bool) {
	if !inv.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(inv.in.Text()), true
}

func (inv *Invoker) println(s string) {
	fmt.Fprintln(inv.out, s)
}

func (inv *Invoker) printf(format string, args ...interface{}) {
	fmt.Fprintf(inv.out, format, args...)
}

// prompt 输出提示并读取一行
func (inv *Invoker) prompt(text string) string {
	inv.println(text)
	line, _ := inv.readLine()
	return line
}

func (inv *Invoker) promptID(text string) (string, bool) {
	id, err := uuid.Parse(inv.prompt(text))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// parseIDs splits a comma separated list, dropping malformed ids
func parseIDs(line string) []string {
	var ids []string
	for _, part := range strings.Split(line, ",") {
		if id, err := uuid.Parse(strings.TrimSpace(part)); err == nil {
			ids = append(ids, id.String())
		}
	}
	return ids
}

func (inv *Invoker) notify(ctx context.Context, event notify.Event) {
	// observer failures are logged by the notifier
	_ = inv.notifier.Notify(ctx, event)
}

// ============================================================================
// Products
// ============================================================================

func (inv *Invoker) printProduct(p *product.Product) {
	inv.printf("ID: %s, Name: %s, Price: %s\n", p.ID(), p.Name(), p.Price())
}

func (inv *Invoker) getAllProducts(ctx context.Context) {
	products, _ := inv.products.GetAllProducts(ctx)
	if len(products) == 0 {
		inv.println("No products found.")
		return
	}
	for _, p := range products {
		inv.printProduct(p)
	}
}

func (inv *Invoker) getProductByID(ctx context.Context) {
	id, ok := inv.promptID("Enter Product ID: ")
	if !ok {
		inv.println("Invalid ID format.")
		return
	}
	p, _ := inv.products.GetProductByID(ctx, id)
	if p == nil {
		inv.println("Product not found.")
		return
	}
	inv.printProduct(p)
}

func (inv *Invoker) createProduct(ctx context.Context) {
	name := inv.prompt("Enter Product Name: ")
	price, err := shared.ParseMoney(inv.prompt("Enter Product Price: "))
	if err != nil {
		inv.println("Invalid price format.")
		return
	}

	p, err := inv.products.CreateProduct(ctx, name, price)
	if p == nil {
		if errors.Is(err, shared.ErrInvalidInput) {
			inv.println("Invalid product: " + err.Error())
			return
		}
		inv.println("Error creating product.")
		return
	}

	inv.println("Product created with ID: " + p.ID())
	inv.notify(ctx, notify.ProductCreated(p))
}

func (inv *Invoker) updateProduct(ctx context.Context) {
	id, ok := inv.promptID("Enter Product ID to update: ")
	if !ok {
		inv.println("Invalid ID format.")
		return
	}
	p, _ := inv.products.GetProductByID(ctx, id)
	if p == nil {
		inv.println("Product not found.")
		return
	}

	if name := inv.prompt("Enter new name for the product (leave blank to keep current): "); name != "" {
		if err := p.Rename(name); err != nil {
			inv.println("Invalid name: " + err.Error())
			return
		}
	}
	if raw := inv.prompt("Enter new price for the product (leave blank to keep current): "); raw != "" {
		price, err := shared.ParseMoney(raw)
		if err == nil {
			err = p.ChangePrice(price)
		}
		if err != nil {
			inv.println("Invalid price: " + err.Error())
			return
		}
	}

	updated, _ := inv.products.UpdateProduct(ctx, p)
	if updated == nil {
		inv.println("Error updating product.")
		return
	}
	inv.printf("Product updated. New Name: %s, New Price: %s\n", updated.Name(), updated.Price())
}

func (inv *Invoker) deleteProduct(ctx context.Context) {
	id, ok := inv.promptID("Enter Product ID to delete: ")
	if !ok {
		inv.println("Invalid ID format.")
		return
	}
	deleted, _ := inv.products.DeleteProduct(ctx, id)
	if deleted == nil {
		inv.println("Error deleting product or product not found.")
		return
	}
	inv.printf("Product with ID %s deleted.\n", deleted.ID())
}

// ============================================================================
// Orders
// ============================================================================

func (inv *Invoker) printOrder(o *order.Order) {
	inv.printf("Order ID: %s, Total Amount: %s\n", o.ID(), o.TotalAmount())
}

func (inv *Invoker) getAllOrders(ctx context.Context) {
	orders, _ := inv.orders.GetAllOrders(ctx)
	if len(orders) == 0 {
		inv.println("No orders found.")
		return
	}
	for _, o := range orders {
		inv.printOrder(o)
	}
}

func (inv *Invoker) getOrderByID(ctx context.Context) {
	id, ok := inv.promptID("Enter Order ID: ")
	if !ok {
		inv.println("Invalid ID format.")
		return
	}
	o, _ := inv.orders.GetOrderByID(ctx, id)
	if o == nil {
		inv.println("Order not found.")
		return
	}
	inv.printOrder(o)
}

// lookupProducts skips ids that do not resolve, reporting each
func (inv *Invoker) lookupProducts(ctx context.Context, ids []string) []*product.Product {
	products := make([]*product.Product, 0, len(ids))
	for _, id := range ids {
		p, _ := inv.products.GetProductByID(ctx, id)
		if p == nil {
			inv.printf("Product with ID %s not found.\n", id)
			continue
		}
		products = append(products, p)
	}
	return products
}

func (inv *Invoker) createOrder(ctx context.Context) {
	ids := parseIDs(inv.prompt("Enter Product IDs for the order (comma separated): "))
	products := inv.lookupProducts(ctx, ids)

	o, _ := inv.orders.CreateOrder(ctx, products)
	if o == nil {
		inv.println("Error creating order.")
		return
	}

	inv.println("Order created with ID: " + o.ID())
	inv.notify(ctx, notify.OrderCreated(o))
}

func (inv *Invoker) updateOrder(ctx context.Context) {
	id, ok := inv.promptID("Enter Order ID to update: ")
	if !ok {
		inv.println("Invalid ID format.")
		return
	}
	o, _ := inv.orders.GetOrderByID(ctx, id)
	if o == nil {
		inv.println("Order not found.")
		return
	}

	updated, _ := inv.orders.UpdateOrder(ctx, o)
	if updated == nil {
		inv.println("Error updating order.")
		return
	}
	inv.printf("Order updated. Total Amount: %s\n", updated.TotalAmount())
}

func (inv *Invoker) deleteOrder(ctx context.Context) {
	id, ok := inv.promptID("Enter Order ID to delete: ")
	if !ok {
		inv.println("Invalid ID format.")
		return
	}
	deleted, _ := inv.orders.DeleteOrder(ctx, id)
	if deleted == nil {
		inv.println("Error deleting order or order not found.")
		return
	}
	inv.printf("Order with ID %s deleted.\n", deleted.ID())
}

func (inv *Invoker) addProductsToOrder(ctx context.Context) {
	orderID, ok := inv.promptID("Enter Order ID to add products: ")
	if !ok {
		inv.println("Invalid Order ID format.")
		return
	}
	ids := parseIDs(inv.prompt("Enter Product IDs to add, separated by commas: "))
	products := inv.lookupProducts(ctx, ids)
	if len(products) == 0 {
		inv.println("No valid products to add.")
		return
	}

	updated, _ := inv.orders.AddProductsToOrder(ctx, orderID, products)
	if updated == nil {
		inv.println("Error adding products to the order.")
		return
	}
	inv.printf("Successfully added products to order %s. Total amount: %s\n", orderID, updated.TotalAmount())
}
