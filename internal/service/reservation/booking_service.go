package reservation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dmvillareal/hotel-backoffice/internal/common/config"
	"github.com/dmvillareal/hotel-backoffice/internal/common/crypto"
	"github.com/dmvillareal/hotel-backoffice/internal/common/errors"
	"github.com/dmvillareal/hotel-backoffice/internal/common/logger"
	"github.com/dmvillareal/hotel-backoffice/internal/common/metrics"
	"github.com/dmvillareal/hotel-backoffice/internal/common/utils"
	"github.com/dmvillareal/hotel-backoffice/internal/models"
	"github.com/dmvillareal/hotel-backoffice/internal/repository"
	"github.com/dmvillareal/hotel-backoffice/pkg/sms"
)

// BookingService 预订下单服务
// 选房、建档、预订、账单、首付款在单个数据库事务内完成
type BookingService struct {
	db           *gorm.DB
	roomTypeRepo *repository.RoomTypeRepository
	methodRepo   *repository.PaymentMethodRepository
	configRepo   *repository.SystemConfigRepository
	codeService  *CodeService
	aes          *crypto.AES
	smsSender    sms.Sender
}

// NewBookingService 创建预订下单服务
func NewBookingService(
	db *gorm.DB,
	roomTypeRepo *repository.RoomTypeRepository,
	methodRepo *repository.PaymentMethodRepository,
	configRepo *repository.SystemConfigRepository,
	codeService *CodeService,
	aes *crypto.AES,
	smsSender sms.Sender,
) *BookingService {
	return &BookingService{
		db:           db,
		roomTypeRepo: roomTypeRepo,
		methodRepo:   methodRepo,
		configRepo:   configRepo,
		codeService:  codeService,
		aes:          aes,
		smsSender:    smsSender,
	}
}

// BookingGuestRequest 预订时登记的客人信息
type BookingGuestRequest struct {
	FirstName   string  `json:"first_name" binding:"required,max=50"`
	LastName    string  `json:"last_name" binding:"required,max=50"`
	Email       *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone       string  `json:"phone" binding:"required,max=20"`
	Nationality *string `json:"nationality,omitempty"`
	Address     *string `json:"address,omitempty"`
	IDTypeID    int64   `json:"id_type_id" binding:"required"`
	IDNumber    string  `json:"id_number" binding:"required,max=50"`
}

// BookingCompanionRequest 同住人
type BookingCompanionRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	Age  *int   `json:"age,omitempty" binding:"omitempty,min=0,max=150"`
}

// CreateBookingRequest 创建预订请求
// GuestID 与 Guest 二选一：老客直接引用档案，新客随单建档
type CreateBookingRequest struct {
	GuestID      int64                     `json:"guest_id"`
	Guest        *BookingGuestRequest      `json:"guest,omitempty"`
	RoomTypeID   int64                     `json:"room_type_id" binding:"required"`
	CheckInDate  string                    `json:"check_in_date" binding:"required"`
	CheckOutDate string                    `json:"check_out_date" binding:"required"`
	GuestCount   int                       `json:"guest_count" binding:"required,min=1"`
	Companions   []BookingCompanionRequest `json:"companions,omitempty"`
	SubMethodID  int64                     `json:"sub_method_id" binding:"required"`
	ReferenceNo  *string                   `json:"reference_no,omitempty"`
	Remark       *string                   `json:"remark,omitempty"`
}

// BookingInfo 预订下单结果
type BookingInfo struct {
	ReservationID   int64     `json:"reservation_id"`
	ReservationNo   string    `json:"reservation_no"`
	Status          string    `json:"status"`
	GuestID         int64     `json:"guest_id"`
	RoomID          int64     `json:"room_id"`
	RoomNo          string    `json:"room_no"`
	CheckInDate     time.Time `json:"check_in_date"`
	CheckOutDate    time.Time `json:"check_out_date"`
	Nights          int       `json:"nights"`
	CheckInCode     string    `json:"check_in_code"`
	CheckInQR       string    `json:"check_in_qr,omitempty"`
	BillingID       int64     `json:"billing_id"`
	BillingNo       string    `json:"billing_no"`
	TotalAmount     float64   `json:"total_amount"`
	DownpaymentRate float64   `json:"downpayment_rate"`
	PaidAmount      float64   `json:"paid_amount"`
}

// CreateBooking 创建预订
// 流程：校验入住区间 → 事务内锁定空闲房间、建档、落预订与账单、收首付 → 提交后生成二维码并发送确认短信
func (s *BookingService) CreateBooking(ctx context.Context, req *CreateBookingRequest, operatorID int64) (*BookingInfo, error) {
	cfg := config.Get().Business.Reservation

	checkIn, checkOut, err := s.parseStayRange(req.CheckInDate, req.CheckOutDate, cfg.CheckInHour, cfg.CheckOutHour)
	if err != nil {
		return nil, err
	}

	roomType, err := s.roomTypeRepo.GetByID(ctx, req.RoomTypeID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomTypeNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if req.GuestCount > roomType.Capacity {
		return nil, errors.ErrInvalidParams.WithMessage("入住人数超过房型容量")
	}
	if len(req.Companions) > req.GuestCount-1 {
		return nil, errors.ErrCompanionLimitExceed
	}

	subMethod, err := s.methodRepo.GetSubMethodByID(ctx, req.SubMethodID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPaymentMethodError
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if !subMethod.IsActive {
		return nil, errors.ErrPaymentMethodError
	}

	// 首付比例优先读运行时配置，缺省回退静态配置
	rate := s.configRepo.GetFloat(ctx, models.ConfigKeyDownpaymentRate, cfg.DownpaymentRate)
	if rate <= 0 || rate > 1 {
		rate = cfg.DownpaymentRate
	}

	// 入住 14 点、退房 12 点，不足整天按自然日计
	nights := int(math.Round(checkOut.Sub(checkIn).Hours() / 24))
	if nights < 1 {
		nights = 1
	}
	roomSubtotal := round2(float64(nights) * roomType.NightlyRate)
	downpayment := round2(roomSubtotal * rate)

	var (
		reservation models.Reservation
		room        models.Room
		billing     models.Billing
		guestID     int64
		guestPhone  string
	)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error

		// 行锁串行化同房型的并发下单，后来的事务能看到先提交的占用
		if txErr = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&models.RoomType{}, req.RoomTypeID).Error; txErr != nil {
			return errors.ErrDatabaseError.WithError(txErr)
		}

		guestID, guestPhone, txErr = s.resolveGuest(tx, req)
		if txErr != nil {
			return txErr
		}

		// 事务内选房，排除区间重叠的未释放占用
		txErr = tx.Where("room_type_id = ? AND status = ?", req.RoomTypeID, models.RoomStatusAvailable).
			Where("id NOT IN (?)", tx.Session(&gorm.Session{NewDB: true}).
				Model(&models.ReservedRoom{}).
				Select("room_id").
				Where("released = ? AND check_in_date < ? AND check_out_date > ?", false, checkOut, checkIn)).
			Order("floor ASC, room_no ASC").
			First(&room).Error
		if txErr != nil {
			if txErr == gorm.ErrRecordNotFound {
				return errors.ErrNoVacantRoom
			}
			return errors.ErrDatabaseError.WithError(txErr)
		}

		reservation = models.Reservation{
			ReservationNo: utils.GenerateOrderNo("R"),
			GuestID:       guestID,
			RoomTypeID:    req.RoomTypeID,
			CheckInDate:   checkIn,
			CheckOutDate:  checkOut,
			GuestCount:    req.GuestCount,
			Status:        models.ReservationStatusPending,
			CheckInCode:   s.codeService.GenerateCheckInCode(),
			Remark:        req.Remark,
		}
		if txErr = tx.Create(&reservation).Error; txErr != nil {
			return errors.ErrDatabaseError.WithError(txErr)
		}

		reserved := models.ReservedRoom{
			ReservationID: reservation.ID,
			RoomID:        room.ID,
			CheckInDate:   checkIn,
			CheckOutDate:  checkOut,
		}
		if txErr = tx.Create(&reserved).Error; txErr != nil {
			return errors.ErrDatabaseError.WithError(txErr)
		}

		for _, c := range req.Companions {
			companion := models.Companion{
				ReservationID: reservation.ID,
				Name:          strings.TrimSpace(c.Name),
				Age:           c.Age,
			}
			if txErr = tx.Create(&companion).Error; txErr != nil {
				return errors.ErrDatabaseError.WithError(txErr)
			}
		}

		billing = models.Billing{
			BillingNo:     utils.GenerateOrderNo("B"),
			ReservationID: reservation.ID,
			RoomSubtotal:  roomSubtotal,
			TotalAmount:   roomSubtotal,
			Status:        models.BillingStatusOpen,
		}
		if txErr = tx.Create(&billing).Error; txErr != nil {
			return errors.ErrDatabaseError.WithError(txErr)
		}

		if downpayment > 0 {
			payment := models.Payment{
				PaymentNo:    utils.GenerateOrderNo("P"),
				BillingID:    billing.ID,
				Amount:       downpayment,
				SubMethodID:  req.SubMethodID,
				ReferenceNo:  req.ReferenceNo,
				ReceivedByID: operatorID,
				PaidAt:       time.Now(),
			}
			if txErr = tx.Create(&payment).Error; txErr != nil {
				return errors.ErrDatabaseError.WithError(txErr)
			}

			billing.PaidAmount = downpayment
			if billing.PaidAmount >= billing.TotalAmount {
				billing.Status = models.BillingStatusSettled
			} else {
				billing.Status = models.BillingStatusPartiallyPaid
			}
			if txErr = tx.Model(&models.Billing{}).Where("id = ?", billing.ID).
				Updates(map[string]interface{}{
					"paid_amount": billing.PaidAmount,
					"status":      billing.Status,
				}).Error; txErr != nil {
				return errors.ErrDatabaseError.WithError(txErr)
			}
		}

		return nil
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if m := metrics.GetMetrics(); m != nil {
		m.RecordReservation(models.ReservationStatusPending)
		if downpayment > 0 {
			m.RecordPayment(subMethod.Code, "success")
		}
	}

	info := &BookingInfo{
		ReservationID:   reservation.ID,
		ReservationNo:   reservation.ReservationNo,
		Status:          reservation.Status,
		GuestID:         guestID,
		RoomID:          room.ID,
		RoomNo:          room.RoomNo,
		CheckInDate:     checkIn,
		CheckOutDate:    checkOut,
		Nights:          nights,
		CheckInCode:     reservation.CheckInCode,
		BillingID:       billing.ID,
		BillingNo:       billing.BillingNo,
		TotalAmount:     billing.TotalAmount,
		DownpaymentRate: rate,
		PaidAmount:      billing.PaidAmount,
	}

	// 二维码与短信失败不影响下单结果
	if qr, qrErr := s.codeService.GenerateCheckInQR(reservation.ReservationNo, reservation.CheckInCode); qrErr == nil {
		info.CheckInQR = qr
	} else {
		logger.Warn("生成入住二维码失败",
			logger.ReservationNo(reservation.ReservationNo),
			zap.Error(qrErr))
	}

	if s.smsSender != nil && guestPhone != "" {
		if smsErr := s.smsSender.SendReservationConfirm(ctx, guestPhone,
			reservation.ReservationNo, checkIn.Format("2006-01-02")); smsErr != nil {
			logger.Warn("发送预订确认短信失败",
				logger.ReservationNo(reservation.ReservationNo),
				zap.Error(smsErr))
		}
	}

	return info, nil
}

// resolveGuest 解析下单客人，必要时在事务内建档
// 证件号已登记的新客请求直接复用既有档案
func (s *BookingService) resolveGuest(tx *gorm.DB, req *CreateBookingRequest) (int64, string, error) {
	if req.GuestID > 0 {
		var guest models.Guest
		if err := tx.First(&guest, req.GuestID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return 0, "", errors.ErrGuestNotFound
			}
			return 0, "", errors.ErrDatabaseError.WithError(err)
		}
		return guest.ID, guest.Phone, nil
	}

	if req.Guest == nil {
		return 0, "", errors.ErrInvalidParams.WithMessage("缺少客人信息")
	}

	idNumber := strings.TrimSpace(req.Guest.IDNumber)
	if idNumber == "" {
		return 0, "", errors.ErrIDNumberInvalid
	}

	var idType models.GuestIDType
	if err := tx.First(&idType, req.Guest.IDTypeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, "", errors.ErrInvalidParams.WithMessage("无效的证件类型")
		}
		return 0, "", errors.ErrDatabaseError.WithError(err)
	}

	sum := sha256.Sum256([]byte(idNumber))
	hash := hex.EncodeToString(sum[:])

	var existing models.Guest
	err := tx.Where("id_number_hash = ?", hash).First(&existing).Error
	if err == nil {
		return existing.ID, existing.Phone, nil
	}
	if err != gorm.ErrRecordNotFound {
		return 0, "", errors.ErrDatabaseError.WithError(err)
	}

	encrypted, err := s.aes.Encrypt(idNumber)
	if err != nil {
		return 0, "", errors.ErrInternalError.WithError(err)
	}

	guest := models.Guest{
		FirstName:         strings.TrimSpace(req.Guest.FirstName),
		LastName:          strings.TrimSpace(req.Guest.LastName),
		Email:             req.Guest.Email,
		Phone:             strings.TrimSpace(req.Guest.Phone),
		Nationality:       req.Guest.Nationality,
		Address:           req.Guest.Address,
		IDTypeID:          req.Guest.IDTypeID,
		IDNumberEncrypted: encrypted,
		IDNumberHash:      hash,
	}
	if err := tx.Create(&guest).Error; err != nil {
		return 0, "", errors.ErrDatabaseError.WithError(err)
	}
	return guest.ID, guest.Phone, nil
}

// parseStayRange 解析入住区间
// 入住/退房时间点取配置的标准钟点
func (s *BookingService) parseStayRange(checkInDate, checkOutDate string, checkInHour, checkOutHour int) (time.Time, time.Time, error) {
	inDay, err := time.ParseInLocation("2006-01-02", checkInDate, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, errors.ErrStayRangeInvalid.WithMessage("入住日期格式错误")
	}
	outDay, err := time.ParseInLocation("2006-01-02", checkOutDate, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, errors.ErrStayRangeInvalid.WithMessage("退房日期格式错误")
	}

	checkIn := inDay.Add(time.Duration(checkInHour) * time.Hour)
	checkOut := outDay.Add(time.Duration(checkOutHour) * time.Hour)

	if !outDay.After(inDay) {
		return time.Time{}, time.Time{}, errors.ErrStayRangeInvalid
	}

	today := time.Now().Truncate(24 * time.Hour)
	if inDay.Before(today) {
		return time.Time{}, time.Time{}, errors.ErrStayRangeInvalid.WithMessage("入住日期不能早于今天")
	}

	return checkIn, checkOut, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
