package controllers

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rivalsxninjax1/rms/config"
	"github.com/rivalsxninjax1/rms/models"
	"github.com/rivalsxninjax1/rms/utils"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
)

func invoicePath(cfg *config.Config, orderID uint) string {
	return filepath.Join(cfg.MediaRoot, "invoices", fmt.Sprintf("invoice_order_%d.pdf", orderID))
}

// ensureInvoicePDF writes the invoice for a paid order if it does not
// already exist and returns its path. An existing file is never
// regenerated, so the invoice a customer first downloaded stays stable.
func ensureInvoicePDF(order *models.Order) (string, error) {
	if order.Status != models.OrderStatusPaid {
		return "", fmt.Errorf("order %d is not paid", order.ID)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return "", err
	}

	path := invoicePath(cfg, order.ID)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	items := order.OrderItems
	if len(items) == 0 {
		if err := config.DB.Preload("OrderItems.MenuItem").First(order, order.ID).Error; err != nil {
			return "", err
		}
		items = order.OrderItems
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, "Restaurant Management System")
	pdf.SetFont("Arial", "", 12)
	pdf.Ln(8)
	pdf.Cell(100, 8, "123 Main St, City, Country")
	pdf.Ln(8)
	pdf.Cell(100, 8, "Email: orders@example.com | Phone: +91-12345-67890")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "INVOICE")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(50, 8, "Order ID: "+strconv.Itoa(int(order.ID)))
	pdf.Cell(60, 8, "Order Date: "+order.CreatedAt.Format("2006-01-02 15:04:05"))
	pdf.Ln(8)
	pdf.Cell(50, 8, "Service: "+order.ServiceType)
	pdf.Cell(60, 8, "Status: "+order.Status)
	pdf.Ln(8)
	if order.ServiceType == models.ServiceTypeDineIn && order.TableNumber > 0 {
		pdf.Cell(100, 8, "Table: "+strconv.Itoa(order.TableNumber))
		pdf.Ln(8)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(70, 8, "Item", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Price", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Total", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 12)
	for _, item := range items {
		name := item.MenuItem.Name
		if name == "" {
			name = fmt.Sprintf("Item #%d", item.MenuItemID)
		}
		pdf.CellFormat(70, 8, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, strconv.Itoa(item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", item.LineTotal()), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(120, 8, "Subtotal:", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", order.Subtotal), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(120, 8, "Discount:", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", order.DiscountAmount), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(120, 8, "Tip:", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", order.TipAmount), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(120, 10, "Grand Total:", "", 0, "L", false, 0, "")
	pdf.CellFormat(30, 10, fmt.Sprintf("%.2f %s", order.GrandTotal, order.Currency), "", 1, "R", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 12)
	pdf.Cell(0, 10, "Thank you for dining with us!")

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", err
	}

	if err := config.DB.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("invoice_path", path).Error; err != nil {
		utils.LogError("Failed to record invoice path for order ID: %d: %v", order.ID, err)
	}
	order.InvoicePath = path
	utils.LogInfo("Invoice generated for order ID: %d at %s", order.ID, path)
	return path, nil
}

// DownloadInvoice serves the PDF invoice for a paid order
func DownloadInvoice(c *gin.Context) {
	utils.LogInfo("DownloadInvoice called")

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	var order models.Order
	if err := config.DB.Preload("OrderItems.MenuItem").First(&order, orderID).Error; err != nil {
		utils.NotFound(c, "Order not found")
		return
	}
	if !orderAccessible(c, &order) {
		utils.NotFound(c, "Order not found")
		return
	}

	if order.Status != models.OrderStatusPaid {
		utils.BadRequest(c, "Invoice is only available for paid orders", gin.H{"status": order.Status})
		return
	}

	path, err := ensureInvoicePDF(&order)
	if err != nil {
		utils.LogError("Invoice generation failed for order ID: %d: %v", order.ID, err)
		utils.InternalServerError(c, "Failed to generate invoice", nil)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice_order_%d.pdf", order.ID))
	c.Header("Content-Type", "application/pdf")
	c.File(path)
	utils.LogInfo("Invoice download completed for order ID: %d", order.ID)
}
