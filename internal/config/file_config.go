package config

// UploadTarget - куда складывать загрузку конкретного типа
type UploadTarget struct {
	Dir string
}

// UploadTargets - маршрут загрузки -> подкаталог хранилища
var UploadTargets = map[string]UploadTarget{
	"image":             {Dir: "categories"},
	"blog-image":        {Dir: "blogs"},
	"product-image":     {Dir: "products"},
	"subcategory-image": {Dir: "subcategories"},
}
