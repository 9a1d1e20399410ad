// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired     = "auth.required"
	KeyAuthInvalidToken = "auth.invalid_token"
	KeyAuthTokenExpired = "auth.token_expired"

	// Assets
	KeyAssetMinted        = "asset.minted"
	KeyAssetBatchMinted   = "asset.batch_minted"
	KeyAssetNotFound      = "asset.not_found"
	KeyAssetMediaUploaded = "asset.media_uploaded"

	// Transfers
	KeyTransferCompleted     = "transfer.completed"
	KeyTransferSaleCompleted = "transfer.sale_completed"
	KeyTransferBulkCompleted = "transfer.bulk_completed"

	// Licenses
	KeyLicensePurchased    = "license.purchased"
	KeyLicenseNotFound     = "license.not_found"
	KeyLicenseTermsUpdated = "license.terms_updated"

	// Payments
	KeyPaymentSuccess          = "payment.success"
	KeyPaymentFailed           = "payment.failed"
	KeyPaymentPending          = "payment.pending"
	KeyPaymentInvalidAmount    = "payment.invalid_amount"
	KeyPaymentDepositCompleted = "payment.deposit_completed"

	// Admin
	KeyAdminActionSuccess   = "admin.action_success"
	KeyAdminAccessDenied    = "admin.access_denied"
	KeyAdminRegistryPaused  = "admin.registry_paused"
	KeyAdminRegistryResumed = "admin.registry_resumed"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileInvalidType   = "file.invalid_type"
	KeyFileTooLarge      = "file.too_large"

	// Error envelope messages, keyed by apperrors code
	KeyErrUnauthorized        = "errors.unauthorized"
	KeyErrNotOwner            = "errors.not_owner"
	KeyErrTokenNotFound       = "errors.token_not_found"
	KeyErrInvalidRoyalty      = "errors.invalid_royalty"
	KeyErrInsufficientPayment = "errors.insufficient_payment"
	KeyErrInvalidRecipient    = "errors.invalid_recipient"
	KeyErrRegistryPaused      = "errors.registry_paused"
	KeyErrInsufficientFunds   = "errors.insufficient_funds"
)
