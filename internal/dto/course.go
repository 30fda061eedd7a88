package dto

// CourseCatalogQuery addresses the public catalog by semester and department.
type CourseCatalogQuery struct {
	Semester int    `uri:"semester" validate:"required,min=1,max=8"`
	Dept     string `uri:"dept" validate:"required"`
}
