package service

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"linkly-go/internal/apperrors"
	"linkly-go/internal/cache"
	"linkly-go/internal/dto"
	"linkly-go/internal/model"
	"linkly-go/internal/repository"
	"linkly-go/pkg/logging"
	"linkly-go/pkg/utils"
	"linkly-go/response"
)

const (
	// 随机短码默认长度与冲突重试次数；重试耗尽后升级到更长的短码
	randomCodeLength   = 7
	randomCodeRetries  = 10
	fallbackCodeLength = 9
)

// CreateLink 创建短链。短码缺省时生成随机短码；新链接默认启用并立即进入缓存。
func CreateLink(ctx context.Context, req dto.CreateLinkRequest) (*model.Link, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.InvalidRequestError(err.Error())
	}

	code := req.ShortCode
	if code == "" {
		generated, err := generateUniqueCode()
		if err != nil {
			return nil, err
		}
		code = generated
	} else {
		// 自定义短码冲突是调用方可处理的业务错误
		var existing model.Link
		if err := repository.DB.Where("short_code = ?", code).First(&existing).Error; err == nil {
			return nil, apperrors.BusinessError(http.StatusConflict, "error.shortcode_taken")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			logging.Logger.Error("Failed to query short code", zap.Error(err))
			return nil, apperrors.SystemErrorDefault()
		}
	}

	link := &model.Link{
		ShortCode:   code,
		TargetURL:   req.TargetURL,
		Title:       optionalField(req.Title),
		Description: optionalField(req.Description),
		Active:      true,
	}

	if err := repository.DB.Create(link).Error; err != nil {
		logging.Logger.Error("Failed to create link", zap.String("short_code", code), zap.Error(err))
		return nil, apperrors.SystemErrorDefault()
	}

	cache.Links.Put(code, cache.Entry{LinkID: link.ID, TargetURL: link.TargetURL})
	logging.Logger.Info("Link created", zap.Uint("id", link.ID), zap.String("short_code", code))
	return link, nil
}

// generateUniqueCode 生成未被占用的随机短码。
// 连续冲突说明短码空间过于拥挤，升级到更长的短码兜底。
func generateUniqueCode() (string, error) {
	for i := 0; i < randomCodeRetries; i++ {
		code, err := utils.RandomCode(randomCodeLength)
		if err != nil {
			logging.Logger.Error("Failed to generate random code", zap.Error(err))
			return "", apperrors.SystemErrorDefault()
		}

		var existing model.Link
		err = repository.DB.Where("short_code = ?", code).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code, nil
		}
		if err != nil {
			logging.Logger.Error("Failed to query short code", zap.Error(err))
			return "", apperrors.SystemErrorDefault()
		}
	}

	code, err := utils.RandomCode(fallbackCodeLength)
	if err != nil {
		logging.Logger.Error("Failed to generate random code", zap.Error(err))
		return "", apperrors.SystemErrorDefault()
	}
	return code, nil
}

// ListLinks 分页查询链接列表，按创建时间倒序，附带累计点击数
func ListLinks(ctx context.Context, page, size int, shortCode string) (*response.PageResponse[dto.LinkWithStats], error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10
	}

	db := repository.DB.Model(&model.Link{})
	if shortCode != "" {
		db = db.Where("short_code LIKE ?", "%"+shortCode+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		logging.Logger.Error("Failed to count links", zap.Error(err))
		return nil, apperrors.SystemErrorDefault()
	}

	if total == 0 {
		return &response.PageResponse[dto.LinkWithStats]{
			Page:      page,
			Size:      size,
			Total:     0,
			TotalPage: 0,
			List:      []dto.LinkWithStats{},
		}, nil
	}

	var rows []dto.LinkWithStats
	if err := db.
		Select("links.id, links.short_code, links.target_url, links.title, links.description, links.active, links.created_at, COUNT(clicks.id) AS click_count").
		Joins("LEFT JOIN clicks ON clicks.link_id = links.id").
		Group("links.id").
		Order("links.created_at DESC").
		Limit(size).
		Offset((page - 1) * size).
		Scan(&rows).Error; err != nil {
		logging.Logger.Error("Failed to query links", zap.Error(err))
		return nil, apperrors.SystemErrorDefault()
	}

	totalPage := (int(total) + size - 1) / size

	return &response.PageResponse[dto.LinkWithStats]{
		Page:      page,
		Size:      size,
		Total:     int(total),
		TotalPage: totalPage,
		List:      rows,
	}, nil
}

// UpdateLink 更新目标地址与描述信息（不允许改短码），并同步修补缓存
func UpdateLink(ctx context.Context, id uint, req dto.UpdateLinkRequest) (*model.Link, error) {
	if err := utils.ValidateTargetURL(req.TargetURL); err != nil {
		return nil, apperrors.InvalidRequestError(err.Error())
	}

	var link model.Link
	if err := repository.DB.First(&link, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundError("error.link_not_found")
		}
		logging.Logger.Error("Failed to query link", zap.Uint("id", id), zap.Error(err))
		return nil, apperrors.SystemErrorDefault()
	}

	link.TargetURL = req.TargetURL
	link.Title = optionalField(req.Title)
	link.Description = optionalField(req.Description)

	if err := repository.DB.Save(&link).Error; err != nil {
		logging.Logger.Error("Failed to update link", zap.Uint("id", id), zap.Error(err))
		return nil, apperrors.SystemErrorDefault()
	}

	// 启用中的链接目标地址变了，缓存必须跟着变
	if link.Active {
		cache.Links.Put(link.ShortCode, cache.Entry{LinkID: link.ID, TargetURL: link.TargetURL})
	}
	return &link, nil
}

// UpdateLinkStatus 启用/停用链接。停用立即从缓存移除，
// 此后该短码的访问与未知短码不可区分。
func UpdateLinkStatus(ctx context.Context, id uint, active bool) (*model.Link, error) {
	var link model.Link
	if err := repository.DB.First(&link, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundError("error.link_not_found")
		}
		logging.Logger.Error("Failed to query link", zap.Uint("id", id), zap.Error(err))
		return nil, apperrors.SystemErrorDefault()
	}

	link.Active = active
	if err := repository.DB.Save(&link).Error; err != nil {
		logging.Logger.Error("Failed to update link status", zap.Uint("id", id), zap.Bool("active", active), zap.Error(err))
		return nil, apperrors.SystemErrorDefault()
	}

	if active {
		cache.Links.Put(link.ShortCode, cache.Entry{LinkID: link.ID, TargetURL: link.TargetURL})
	} else {
		cache.Links.Remove(link.ShortCode)
	}

	logging.Logger.Info("Link status updated", zap.Uint("id", id), zap.Bool("active", active))
	return &link, nil
}

// DeleteLink 删除链接及其全部点击记录（外键级联），并从缓存移除
func DeleteLink(ctx context.Context, id uint) error {
	var link model.Link
	if err := repository.DB.First(&link, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFoundError("error.link_not_found")
		}
		logging.Logger.Error("Failed to query link", zap.Uint("id", id), zap.Error(err))
		return apperrors.SystemErrorDefault()
	}

	if err := repository.DB.Delete(&model.Link{}, id).Error; err != nil {
		logging.Logger.Error("Failed to delete link", zap.Uint("id", id), zap.Error(err))
		return apperrors.SystemErrorDefault()
	}

	cache.Links.Remove(link.ShortCode)
	logging.Logger.Info("Link deleted", zap.Uint("id", id), zap.String("short_code", link.ShortCode))
	return nil
}

// Resolve 解析短码。只查缓存，绝不触达持久层——
// 未知短码与停用短码在这里同样表现为不存在。
func Resolve(shortCode string) (cache.Entry, bool) {
	return cache.Links.Get(shortCode)
}

// WarmLinkCache 全量重建链接缓存：查出所有启用中的链接后整体替换视图。
// 启动时与定时任务都走这里。
func WarmLinkCache() error {
	var links []model.Link
	if err := repository.DB.Where("active = ?", true).Find(&links).Error; err != nil {
		logging.Logger.Error("Failed to load active links", zap.Error(err))
		return err
	}

	entries := make(map[string]cache.Entry, len(links))
	for _, link := range links {
		entries[link.ShortCode] = cache.Entry{LinkID: link.ID, TargetURL: link.TargetURL}
	}

	cache.Links.Warm(entries)
	logging.Logger.Info("Link cache warmed", zap.Int("count", len(entries)))
	return nil
}

func optionalField(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
