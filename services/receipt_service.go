package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	config "github.com/otienobrian/fundi_connect/configs"
	"github.com/otienobrian/fundi_connect/database"
	"github.com/otienobrian/fundi_connect/models"
	"github.com/otienobrian/fundi_connect/money"
	"github.com/otienobrian/fundi_connect/notifications"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// IssueCompletionReceipt renders a PDF receipt for a completed service
// request, uploads it, records it, and emails the customer a link. It is
// idempotent per request and safe to call from a goroutine.
func IssueCompletionReceipt(requestID uuid.UUID) {
	var existing models.Receipt
	if err := database.DB.Where("service_request_id = ?", requestID).First(&existing).Error; err == nil {
		return
	}

	var request models.ServiceRequest
	if err := database.DB.Preload("Customer").Preload("Category").First(&request, "id = ?", requestID).Error; err != nil {
		log.Printf("🔥 Failed to load request %s for receipt: %v", requestID, err)
		return
	}

	var assignment models.JobAssignment
	fundiName := ""
	if err := database.DB.Preload("Fundi").Where("service_request_id = ?", requestID).First(&assignment).Error; err == nil {
		fundiName = assignment.Fundi.FullName
	}

	htmlData, err := generateReceiptHTML(request, fundiName)
	if err != nil {
		log.Printf("🔥 Failed to generate receipt HTML: %v", err)
		return
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		log.Printf("🔥 Failed to generate PDF: %v", err)
		return
	}

	uploadURL, err := uploadReceiptToCloudinary(pdfBytes, request.Reference)
	if err != nil {
		log.Printf("🔥 Failed to upload receipt to Cloudinary: %v", err)
		return
	}

	receipt := models.Receipt{
		ServiceRequestID: request.ID,
		CustomerID:       request.CustomerID,
		ReceiptURL:       uploadURL,
		IssuedAt:         time.Now().UTC(),
	}
	if err := database.DB.Create(&receipt).Error; err != nil {
		log.Printf("🔥 Failed to create receipt record for request %s: %v", request.ID, err)
		return
	}
	log.Printf("✅ Issued receipt for request %s.", request.Reference)

	go notifications.SendEmail(request.Customer.FullName, request.Customer.Email,
		fmt.Sprintf("Your FundiConnect receipt for %s", request.Reference),
		fmt.Sprintf("<p>Hi %s,</p><p>Your job <strong>%s</strong> is complete. Your receipt is ready: <a href=\"%s\">download receipt</a>.</p><p>Thank you for using FundiConnect!</p>",
			request.Customer.FullName, request.Reference, uploadURL))
}

func generateReceiptHTML(request models.ServiceRequest, fundiName string) (string, error) {
	tmpl, err := template.ParseFiles("templates/receipt.html")
	if err != nil {
		return "", err
	}

	data := struct {
		Reference    string
		CustomerName string
		FundiName    string
		Category     string
		Address      string
		Total        string
		IssuedDate   string
	}{
		Reference:    request.Reference,
		CustomerName: request.Customer.FullName,
		FundiName:    fundiName,
		Category:     request.Category.Name,
		Address:      request.Address,
		Total:        money.FormatUSD(request.TotalCents),
		IssuedDate:   time.Now().Format("January 2, 2006"),
	}

	var renderedHTML bytes.Buffer
	if err := tmpl.Execute(&renderedHTML, data); err != nil {
		return "", err
	}
	return renderedHTML.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadReceiptToCloudinary(fileBytes []byte, reference string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("receipts/%s_%s", reference, uuid.New().String()),
		Folder:       "fundi_connect_receipts",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
