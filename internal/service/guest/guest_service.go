// Package guest 提供客人档案服务
package guest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/dmvillareal/hotel-backoffice/internal/common/crypto"
	"github.com/dmvillareal/hotel-backoffice/internal/common/errors"
	"github.com/dmvillareal/hotel-backoffice/internal/models"
	"github.com/dmvillareal/hotel-backoffice/internal/repository"
	"github.com/dmvillareal/hotel-backoffice/pkg/oss"
)

// GuestService 客人档案服务
type GuestService struct {
	guestRepo  *repository.GuestRepository
	idTypeRepo *repository.GuestIDTypeRepository
	aes        *crypto.AES
	uploader   oss.Uploader
}

// NewGuestService 创建客人档案服务
func NewGuestService(
	guestRepo *repository.GuestRepository,
	idTypeRepo *repository.GuestIDTypeRepository,
	aes *crypto.AES,
	uploader oss.Uploader,
) *GuestService {
	return &GuestService{
		guestRepo:  guestRepo,
		idTypeRepo: idTypeRepo,
		aes:        aes,
		uploader:   uploader,
	}
}

// CreateGuestRequest 创建客人请求
type CreateGuestRequest struct {
	FirstName   string  `json:"first_name" binding:"required,max=50"`
	LastName    string  `json:"last_name" binding:"required,max=50"`
	Email       *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone       string  `json:"phone" binding:"required,max=20"`
	Nationality *string `json:"nationality,omitempty"`
	Address     *string `json:"address,omitempty"`
	IDTypeID    int64   `json:"id_type_id" binding:"required"`
	IDNumber    string  `json:"id_number" binding:"required,max=50"`
	Notes       *string `json:"notes,omitempty"`
}

// UpdateGuestRequest 更新客人请求
type UpdateGuestRequest struct {
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	Email       *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone       *string `json:"phone,omitempty"`
	Nationality *string `json:"nationality,omitempty"`
	Address     *string `json:"address,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// GuestInfo 客人信息（证件号已脱敏）
type GuestInfo struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       *string   `json:"email,omitempty"`
	Phone       string    `json:"phone"`
	Nationality *string   `json:"nationality,omitempty"`
	Address     *string   `json:"address,omitempty"`
	IDTypeID    int64     `json:"id_type_id"`
	IDTypeName  string    `json:"id_type_name,omitempty"`
	IDNumber    string    `json:"id_number"`
	IDPhotoKey  *string   `json:"id_photo_key,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateGuest 创建客人档案
func (s *GuestService) CreateGuest(ctx context.Context, req *CreateGuestRequest) (*GuestInfo, error) {
	idNumber := strings.TrimSpace(req.IDNumber)
	if idNumber == "" {
		return nil, errors.ErrIDNumberInvalid
	}

	// 检查证件类型
	if _, err := s.idTypeRepo.GetByID(ctx, req.IDTypeID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrInvalidParams.WithMessage("无效的证件类型")
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	// 证件号加密存储，哈希用于唯一性检查
	encrypted, err := s.aes.Encrypt(idNumber)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}
	hash := hashIDNumber(idNumber)

	exists, err := s.guestRepo.ExistsByIDNumberHash(ctx, hash)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if exists {
		return nil, errors.ErrGuestExists
	}

	guest := &models.Guest{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             req.Email,
		Phone:             req.Phone,
		Nationality:       req.Nationality,
		Address:           req.Address,
		IDTypeID:          req.IDTypeID,
		IDNumberEncrypted: encrypted,
		IDNumberHash:      hash,
		Notes:             req.Notes,
	}
	if err := s.guestRepo.Create(ctx, guest); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	return s.convertGuestInfo(guest), nil
}

// GetGuest 获取客人详情
func (s *GuestService) GetGuest(ctx context.Context, id int64) (*GuestInfo, error) {
	guest, err := s.guestRepo.GetByIDWithDetails(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrGuestNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return s.convertGuestInfo(guest), nil
}

// ListGuests 获取客人列表
func (s *GuestService) ListGuests(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*GuestInfo, int64, error) {
	guests, total, err := s.guestRepo.List(ctx, offset, limit, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	infos := make([]*GuestInfo, 0, len(guests))
	for _, g := range guests {
		infos = append(infos, s.convertGuestInfo(g))
	}
	return infos, total, nil
}

// UpdateGuest 更新客人档案
// 证件类型与证件号不允许修改，需要时重新登记
func (s *GuestService) UpdateGuest(ctx context.Context, id int64, req *UpdateGuestRequest) (*GuestInfo, error) {
	guest, err := s.guestRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrGuestNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if req.FirstName != nil {
		guest.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		guest.LastName = *req.LastName
	}
	if req.Email != nil {
		guest.Email = req.Email
	}
	if req.Phone != nil {
		guest.Phone = *req.Phone
	}
	if req.Nationality != nil {
		guest.Nationality = req.Nationality
	}
	if req.Address != nil {
		guest.Address = req.Address
	}
	if req.Notes != nil {
		guest.Notes = req.Notes
	}

	if err := s.guestRepo.Update(ctx, guest); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return s.convertGuestInfo(guest), nil
}

// DeleteGuest 删除客人档案
// 存在未完结预订时拒绝删除
func (s *GuestService) DeleteGuest(ctx context.Context, id int64) error {
	if _, err := s.guestRepo.GetByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrGuestNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	count, err := s.guestRepo.CountActiveReservations(ctx, id)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if count > 0 {
		return errors.ErrGuestHasStay
	}

	if err := s.guestRepo.Delete(ctx, id); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// UploadIDPhoto 上传证件照片
func (s *GuestService) UploadIDPhoto(ctx context.Context, id int64, filename string, reader io.Reader) (string, error) {
	guest, err := s.guestRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", errors.ErrGuestNotFound
		}
		return "", errors.ErrDatabaseError.WithError(err)
	}

	objectKey := oss.GenerateObjectKey("guest-id", filename)
	url, err := s.uploader.Upload(ctx, objectKey, reader)
	if err != nil {
		return "", errors.ErrIDPhotoUploadFail.WithError(err)
	}

	guest.IDPhotoKey = &objectKey
	if err := s.guestRepo.Update(ctx, guest); err != nil {
		return "", errors.ErrDatabaseError.WithError(err)
	}
	return url, nil
}

// ListIDTypes 获取启用的证件类型列表
func (s *GuestService) ListIDTypes(ctx context.Context) ([]*models.GuestIDType, error) {
	idTypes, err := s.idTypeRepo.ListActive(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return idTypes, nil
}

// convertGuestInfo 转换客人信息，证件号解密后脱敏
func (s *GuestService) convertGuestInfo(guest *models.Guest) *GuestInfo {
	info := &GuestInfo{
		ID:          guest.ID,
		FirstName:   guest.FirstName,
		LastName:    guest.LastName,
		Email:       guest.Email,
		Phone:       guest.Phone,
		Nationality: guest.Nationality,
		Address:     guest.Address,
		IDTypeID:    guest.IDTypeID,
		IDPhotoKey:  guest.IDPhotoKey,
		Notes:       guest.Notes,
		CreatedAt:   guest.CreatedAt,
	}
	if guest.IDType != nil {
		info.IDTypeName = guest.IDType.Name
	}
	if idNumber, err := s.aes.Decrypt(guest.IDNumberEncrypted); err == nil {
		info.IDNumber = maskIDNumber(idNumber)
	}
	return info
}

// hashIDNumber 计算证件号哈希
func hashIDNumber(idNumber string) string {
	sum := sha256.Sum256([]byte(idNumber))
	return hex.EncodeToString(sum[:])
}

// maskIDNumber 证件号脱敏，仅保留末4位
func maskIDNumber(idNumber string) string {
	if len(idNumber) <= 4 {
		return idNumber
	}
	return strings.Repeat("*", len(idNumber)-4) + idNumber[len(idNumber)-4:]
}
