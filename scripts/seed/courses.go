package main

import "github.com/noah-isme/course-registration-api/internal/models"

func course(code, title string, courseType models.CourseType, credits, semester int, dept string) models.Course {
	return models.Course{Code: code, Title: title, Type: courseType, Credits: credits, Semester: semester, Dept: dept, Active: true}
}

// defaultCatalog is the initial course list loaded by -courses.
var defaultCatalog = []models.Course{
	course("COC2062", "DATA STRUCTURE AND ALGORITHM", models.CourseTypeCore, 4, 3, "CS"),
	course("COC2070", "DIGITAL LOGIC AND SYSTEM DESIGN", models.CourseTypeCore, 4, 3, "CS"),
	course("COC3100", "OPERATING SYSTEMS", models.CourseTypeCore, 4, 5, "CS"),
	course("COC3080", "DATABASE MANAGEMENT SYSTEMS", models.CourseTypeCore, 4, 5, "CS"),
	course("COC3090", "COMPUTER NETWORKS", models.CourseTypeCore, 4, 5, "CS"),
	course("COC3092", "MICROPROCESSOR THEORY & APPLICATIONS", models.CourseTypeCore, 3, 5, "CS"),
	course("COP3952", "MINOR PROJECT", models.CourseTypeCore, 3, 6, "CS"),
	course("COC3030", "SOFTWARE ENGINEERING", models.CourseTypeCore, 4, 6, "CS"),
	course("COC4060", "COMPILER DESIGN", models.CourseTypeCore, 4, 7, "CS"),
	course("COC4050", "COMPUTER GRAPHICS", models.CourseTypeCore, 4, 7, "CS"),
	course("COC4070", "ARTIFICIAL INTELLIGENCE", models.CourseTypeDeptElective, 4, 7, "CS"),
	course("COC4010", "INFORMATION SECURITY", models.CourseTypeDeptElective, 4, 7, "CS"),
	course("COO4460", "SELECTED TOPICS IN COMPUTER ENGINEERING-I", models.CourseTypeOpenElective, 4, 7, "CS"),
	course("COC4950", "MAJOR PROJECT", models.CourseTypeCore, 8, 8, "CS"),
	course("CEA1120", "Strength of Materials", models.CourseTypeCore, 4, 7, "CE"),
}
